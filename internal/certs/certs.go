// Package certs keeps a self-signed localhost certificate for serving the
// frontend over HTTPS during development.
package certs

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"net"
	"os"
	"path/filepath"
	"time"
)

// Validity is how long a generated certificate lasts.
const Validity = 365 * 24 * time.Hour

// Organization is written into the certificate subject.
const Organization = "Mapping LIA development"

// Store loads the certificate pair from dir, replacing it when missing,
// unreadable, expired or not valid for localhost.
type Store struct {
	dir      string
	certFile string
	keyFile  string
	now      func() time.Time
	logger   *slog.Logger
}

// NewStore creates a store rooted at dir.
func NewStore(dir string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		dir:      dir,
		certFile: filepath.Join(dir, "localhost.crt"),
		keyFile:  filepath.Join(dir, "localhost.key"),
		now:      time.Now,
		logger:   logger,
	}
}

// Paths returns the certificate and key file locations.
func (s *Store) Paths() (certFile, keyFile string) {
	return s.certFile, s.keyFile
}

// Certificate returns the stored pair, generating a new one when needed.
func (s *Store) Certificate() (tls.Certificate, error) {
	cert, err := tls.LoadX509KeyPair(s.certFile, s.keyFile)
	switch {
	case err == nil:
		verr := s.verify(cert)
		if verr == nil {
			return cert, nil
		}
		s.logger.Info("Replacing development certificate", "reason", verr)
	case errors.Is(err, os.ErrNotExist):
	default:
		s.logger.Warn("Discarding unreadable development certificate", "error", err)
	}
	return s.generate()
}

func (s *Store) verify(cert tls.Certificate) error {
	if len(cert.Certificate) == 0 {
		return errors.New("no certificate in pair")
	}
	leaf, err := x509.ParseCertificate(cert.Certificate[0])
	if err != nil {
		return fmt.Errorf("parse certificate: %w", err)
	}

	now := s.now()
	if now.Before(leaf.NotBefore) || !now.Before(leaf.NotAfter) {
		return fmt.Errorf("certificate valid only from %s to %s", leaf.NotBefore, leaf.NotAfter)
	}
	return leaf.VerifyHostname("localhost")
}

func (s *Store) generate() (tls.Certificate, error) {
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return tls.Certificate{}, fmt.Errorf("create certificate directory: %w", err)
	}

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("generate key: %w", err)
	}
	serial, err := rand.Int(rand.Reader, new(big.Int).Lsh(big.NewInt(1), 128))
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("generate serial: %w", err)
	}

	now := s.now()
	tmpl := x509.Certificate{
		SerialNumber:          serial,
		Subject:               pkix.Name{Organization: []string{Organization}, CommonName: "localhost"},
		NotBefore:             now.Add(-time.Minute),
		NotAfter:              now.Add(Validity),
		KeyUsage:              x509.KeyUsageDigitalSignature,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
		BasicConstraintsValid: true,
		DNSNames:              []string{"localhost"},
		IPAddresses:           []net.IP{net.IPv4(127, 0, 0, 1), net.IPv6loopback},
	}

	der, err := x509.CreateCertificate(rand.Reader, &tmpl, &tmpl, &key.PublicKey, key)
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("create certificate: %w", err)
	}
	keyDER, err := x509.MarshalECPrivateKey(key)
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("encode key: %w", err)
	}

	if err := writePEM(s.certFile, "CERTIFICATE", der); err != nil {
		return tls.Certificate{}, err
	}
	if err := writePEM(s.keyFile, "EC PRIVATE KEY", keyDER); err != nil {
		return tls.Certificate{}, err
	}

	s.logger.Info("Generated development certificate", "path", s.certFile, "expires", tmpl.NotAfter)
	return tls.LoadX509KeyPair(s.certFile, s.keyFile)
}

func writePEM(path, blockType string, der []byte) error {
	data := pem.EncodeToMemory(&pem.Block{Type: blockType, Bytes: der})
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return nil
}
