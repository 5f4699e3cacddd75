package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/otpvault/otpvault/internal/vault/app"
	"github.com/otpvault/otpvault/internal/vault/domain"
	"github.com/otpvault/otpvault/internal/vault/service"
	"github.com/otpvault/otpvault/pkg/cryptox"
	"github.com/otpvault/otpvault/pkg/idx"
)

const usage = `usage: otpvault <command> [flags]

commands:
  add      add a token to the vault
  list     list stored tokens
  remove   remove a token by id
  code     print the current code for a token
  export   write an andOTP backup file
  import   read an andOTP backup file into the vault
  passwd   set or change the vault unlock password
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	application, err := app.New(app.LoadConfig())
	if err != nil {
		log.Fatalf("failed to initialize application: %v", err)
	}
	defer application.Close()

	ctx := context.Background()

	if err := run(ctx, application, os.Args[1], os.Args[2:]); err != nil {
		log.Fatalf("%s: %v", os.Args[1], err)
	}
}

func run(ctx context.Context, application *app.Application, command string, args []string) error {
	switch command {
	case "add":
		return cmdAdd(ctx, application, args)
	case "list":
		return cmdList(ctx, application)
	case "remove":
		return cmdRemove(ctx, application, args)
	case "code":
		return cmdCode(ctx, application, args)
	case "export":
		return cmdExport(ctx, application, args)
	case "import":
		return cmdImport(ctx, application, args)
	case "passwd":
		return cmdPasswd(ctx, application, args)
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", command)
	}
}

func cmdAdd(ctx context.Context, application *app.Application, args []string) error {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	typ := fs.String("type", "totp", "token type: totp, hotp or steam")
	label := fs.String("label", "", "token label")
	secret := fs.String("secret", "", "base32 shared secret")
	digits := fs.Uint("digits", 6, "code length (3-10)")
	period := fs.Uint("period", 30, "seconds per time-step (totp)")
	counter := fs.Uint("counter", 0, "initial counter (hotp)")
	algorithm := fs.String("algorithm", "SHA1", "SHA1, SHA256 or SHA512")
	unlock := fs.String("unlock", "", "vault unlock password, if one is set")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := application.Unlock.Verify(ctx, *unlock); err != nil {
		return err
	}

	if *secret == "" {
		generated, err := cryptox.GenerateSecret(cryptox.SecretSize160)
		if err != nil {
			return err
		}
		*secret = generated
		fmt.Fprintf(os.Stderr, "generated secret: %s\n", generated)
	}

	token, err := buildToken(*typ, *label, *secret, *digits, *period, *counter, *algorithm)
	if err != nil {
		return err
	}

	id, err := application.Tokens.Add(ctx, token)
	if err != nil {
		return err
	}
	fmt.Println(id)
	return nil
}

func buildToken(typ, label, secret string, digits, period, counter uint, algorithm string) (*domain.Token, error) {
	var token *domain.Token
	switch typ {
	case "totp":
		token = domain.NewToken(domain.TypeTOTP)
		token.Period = period
	case "hotp":
		token = domain.NewToken(domain.TypeHOTP)
		token.Counter = uint32(counter) // #nosec G115 - range checked by the token service
	case "steam":
		token = domain.NewToken(domain.TypeSteam)
	default:
		return nil, fmt.Errorf("unknown token type %q", typ)
	}

	token.Label = label
	token.Secret = secret
	token.Digits = digits
	token.SetAlgorithmName(algorithm)
	return token, nil
}

func cmdList(ctx context.Context, application *app.Application) error {
	records, err := application.Tokens.List(ctx)
	if err != nil {
		return err
	}

	for _, rec := range records {
		fmt.Printf("%s  %-5s  %-10s  %s\n",
			rec.ID, rec.Token.Type, rec.ID.Time().Format("2006-01-02"), rec.Token.Label)
	}
	return nil
}

func cmdRemove(ctx context.Context, application *app.Application, args []string) error {
	fs := flag.NewFlagSet("remove", flag.ExitOnError)
	rawID := fs.String("id", "", "token id")
	if err := fs.Parse(args); err != nil {
		return err
	}

	id, err := idx.Parse(*rawID)
	if err != nil {
		return err
	}
	return application.Tokens.Remove(ctx, id)
}

func cmdCode(ctx context.Context, application *app.Application, args []string) error {
	fs := flag.NewFlagSet("code", flag.ExitOnError)
	rawID := fs.String("id", "", "token id")
	unlock := fs.String("unlock", "", "vault unlock password, if one is set")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := application.Unlock.Verify(ctx, *unlock); err != nil {
		return err
	}

	id, err := idx.Parse(*rawID)
	if err != nil {
		return err
	}

	code, err := application.Codes.CodeByID(ctx, id, time.Now())
	if err != nil {
		return err
	}

	rec, err := application.Tokens.Get(ctx, id)
	if err != nil {
		return err
	}

	fmt.Println(code)
	if rec.Token.Type != domain.TypeHOTP {
		remaining := domain.RemainingValidity(time.Now().Second(), displayPeriod(&rec.Token))
		fmt.Fprintf(os.Stderr, "valid for %ds\n", remaining)
	}
	return nil
}

// displayPeriod resolves the step used for the validity display. Steam
// tokens carry no stored period; they always step every 30 seconds.
func displayPeriod(token *domain.Token) uint {
	if token.Type == domain.TypeSteam || token.Period == 0 {
		return 30
	}
	return token.Period
}

func cmdExport(ctx context.Context, application *app.Application, args []string) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	path := fs.String("file", "", "destination file")
	password := fs.String("password", "", "container password (empty: plaintext export)")
	unlock := fs.String("unlock", "", "vault unlock password, if one is set")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *path == "" {
		return fmt.Errorf("missing -file")
	}
	if err := application.Unlock.Verify(ctx, *unlock); err != nil {
		return err
	}

	records, err := application.Tokens.List(ctx)
	if err != nil {
		return err
	}
	tokens := make([]*domain.Token, 0, len(records))
	for i := range records {
		tokens = append(tokens, &records[i].Token)
	}

	mode := service.ModePlain
	if *password != "" {
		mode = service.ModeEncrypted
	}

	if err := application.Transfer.Export(*path, tokens, mode, *password); err != nil {
		return err
	}
	application.Logger().Info("exported tokens", "count", len(tokens), "file", *path, "encrypted", mode == service.ModeEncrypted)
	return nil
}

func cmdImport(ctx context.Context, application *app.Application, args []string) error {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	path := fs.String("file", "", "source file")
	password := fs.String("password", "", "container password (empty: plaintext import)")
	unlock := fs.String("unlock", "", "vault unlock password, if one is set")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *path == "" {
		return fmt.Errorf("missing -file")
	}
	if err := application.Unlock.Verify(ctx, *unlock); err != nil {
		return err
	}

	mode := service.ModePlain
	if *password != "" {
		mode = service.ModeEncrypted
	}

	tokens, err := application.Transfer.Import(*path, mode, *password)
	if err != nil {
		return err
	}

	if _, err := application.Tokens.AddBatch(ctx, tokens); err != nil {
		return err
	}
	application.Logger().Info("imported tokens", "count", len(tokens), "file", *path)
	return nil
}

func cmdPasswd(ctx context.Context, application *app.Application, args []string) error {
	fs := flag.NewFlagSet("passwd", flag.ExitOnError)
	current := fs.String("current", "", "current unlock password (empty if none set)")
	next := fs.String("new", "", "new unlock password")
	if err := fs.Parse(args); err != nil {
		return err
	}
	return application.Unlock.SetPassword(ctx, *current, *next)
}
