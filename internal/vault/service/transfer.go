package service

import (
	"errors"
	"fmt"
	"os"

	"github.com/otpvault/otpvault/internal/vault/andotp"
	"github.com/otpvault/otpvault/internal/vault/domain"
	"github.com/otpvault/otpvault/pkg/cryptox"
)

// Mode selects between the plaintext and encrypted andOTP container
// variants.
type Mode uint8

const (
	ModePlain Mode = iota
	ModeEncrypted
)

// ErrEmptyFile reports an import source with no content. An empty file can
// never be a valid container, encrypted or not.
var ErrEmptyFile = errors.New("service: import file is empty")

// Filesystem is the file access collaborator. Transfer never touches paths
// directly, so tests can substitute an in-memory implementation and the
// caller keeps control over atomic-write discipline.
type Filesystem interface {
	ReadFile(path string) ([]byte, error)
	WriteFile(path string, data []byte) error
}

// OSFilesystem is the default Filesystem backed by the local disk.
type OSFilesystem struct{}

func (OSFilesystem) ReadFile(path string) ([]byte, error) { return os.ReadFile(path) }

func (OSFilesystem) WriteFile(path string, data []byte) error {
	return os.WriteFile(path, data, 0o600)
}

// TransferService imports and exports andOTP backup files, composing the
// JSON codec with the container cipher. Each call is independent; the
// service holds no mutable state.
type TransferService struct {
	FS Filesystem
}

func NewTransferService(fs Filesystem) *TransferService {
	if fs == nil {
		fs = OSFilesystem{}
	}
	return &TransferService{FS: fs}
}

// Export serializes tokens and writes them to path. In encrypted mode the
// JSON text is sealed into the AEAD container under password first. Any
// stage failing aborts before the write, so no partial file is produced by
// this layer.
func (s *TransferService) Export(path string, tokens []*domain.Token, mode Mode, password string) error {
	data, err := andotp.Marshal(tokens)
	if err != nil {
		return fmt.Errorf("service: failed to serialize tokens: %w", err)
	}

	if mode == ModeEncrypted {
		data, err = cryptox.EncryptContainer(password, data)
		if err != nil {
			return fmt.Errorf("service: failed to encrypt container: %w", err)
		}
	}

	if err := s.FS.WriteFile(path, data); err != nil {
		return fmt.Errorf("service: failed to write %s: %w", path, err)
	}

	return nil
}

// Import reads path and recovers whatever valid tokens it contains. A read
// failure, empty file, decryption failure, or structurally invalid document
// yields no tokens at all; individually malformed entries are skipped by
// the codec without failing the batch.
func (s *TransferService) Import(path string, mode Mode, password string) ([]*domain.Token, error) {
	data, err := s.FS.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("service: failed to read %s: %w", path, err)
	}
	if len(data) == 0 {
		return nil, ErrEmptyFile
	}

	if mode == ModeEncrypted {
		data, err = cryptox.DecryptContainer(password, data)
		if err != nil {
			return nil, fmt.Errorf("service: failed to decrypt container: %w", err)
		}
	}

	tokens, err := andotp.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("service: failed to parse tokens: %w", err)
	}

	return tokens, nil
}
