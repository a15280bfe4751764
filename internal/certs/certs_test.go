package certs

import (
	"crypto/tls"
	"crypto/x509"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func leaf(t *testing.T, cert tls.Certificate) *x509.Certificate {
	t.Helper()
	require.Len(t, cert.Certificate, 1)
	c, err := x509.ParseCertificate(cert.Certificate[0])
	require.NoError(t, err)
	return c
}

func TestStore_GeneratesLocalhostCertificate(t *testing.T) {
	dir := t.TempDir() + "/certs"
	s := NewStore(dir, nil)

	cert, err := s.Certificate()
	require.NoError(t, err)

	c := leaf(t, cert)
	assert.Equal(t, []string{Organization}, c.Subject.Organization)
	assert.NoError(t, c.VerifyHostname("localhost"))
	assert.NoError(t, c.VerifyHostname("127.0.0.1"))
	assert.WithinDuration(t, time.Now().Add(Validity), c.NotAfter, time.Minute)

	certFile, keyFile := s.Paths()
	info, err := os.Stat(keyFile)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
	assert.FileExists(t, certFile)
}

func TestStore_ReusesValidCertificate(t *testing.T) {
	s := NewStore(t.TempDir(), nil)

	first, err := s.Certificate()
	require.NoError(t, err)
	second, err := s.Certificate()
	require.NoError(t, err)

	assert.Equal(t, leaf(t, first).SerialNumber, leaf(t, second).SerialNumber)
}

func TestStore_ReplacesExpiredCertificate(t *testing.T) {
	s := NewStore(t.TempDir(), nil)
	first, err := s.Certificate()
	require.NoError(t, err)

	s.now = func() time.Time { return time.Now().Add(Validity + time.Hour) }
	second, err := s.Certificate()
	require.NoError(t, err)

	assert.NotEqual(t, leaf(t, first).SerialNumber, leaf(t, second).SerialNumber)
}

func TestStore_ReplacesCorruptFiles(t *testing.T) {
	s := NewStore(t.TempDir(), nil)
	certFile, keyFile := s.Paths()
	require.NoError(t, os.WriteFile(certFile, []byte("garbage"), 0o600))
	require.NoError(t, os.WriteFile(keyFile, []byte("garbage"), 0o600))

	cert, err := s.Certificate()
	require.NoError(t, err)
	assert.NoError(t, leaf(t, cert).VerifyHostname("localhost"))
}
