package connectors

import (
	"context"
	"net"
	"testing"

	"github.com/pkg/sftp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mtc-jordan/tazweed-wps/internal/core/domain"
)

// inMemSFTPClient wires a client to an in-memory request server over a pipe,
// so connector tests need no real SSH endpoint.
func inMemSFTPClient(t *testing.T) *sftp.Client {
	t.Helper()
	clientConn, serverConn := net.Pipe()
	server := sftp.NewRequestServer(serverConn, sftp.InMemHandler())
	go server.Serve()
	client, err := sftp.NewClientPipe(clientConn, clientConn)
	require.NoError(t, err)
	t.Cleanup(func() {
		client.Close()
		server.Close()
	})
	return client
}

func sftpTestConnector(client *sftp.Client) *sftpConnector {
	c := newSFTPConnector(domain.BankConnection{
		ConnectionID: "conn-2",
		Protocol:     domain.ProtocolSFTP,
		State:        domain.ConnectionActive,
		Credentials:  domain.ConnectionCredentials{SFTPUploadPath: "/"},
	})
	c.dial = func(ctx context.Context) (*sftp.Client, func(), error) {
		return client, func() {}, nil
	}
	return c
}

func writeResponseFile(t *testing.T, client *sftp.Client, name, body string) {
	t.Helper()
	f, err := client.Create(name)
	require.NoError(t, err)
	_, err = f.Write([]byte(body))
	require.NoError(t, err)
	require.NoError(t, f.Close())
}

func TestSFTPConnector_CheckStatusAccepted(t *testing.T) {
	client := inMemSFTPClient(t)
	writeResponseFile(t, client, "/WPS-REF-1.RES", "OK processed 45 of 45\n")

	c := sftpTestConnector(client)
	result, err := c.CheckStatus(context.Background(), "WPS-REF-1")

	require.NoError(t, err)
	assert.True(t, result.Settled)
	assert.True(t, result.Success)
	assert.Equal(t, "000", result.ResponseCode)
	assert.Equal(t, "OK processed 45 of 45", result.ResponseMessage)
}

func TestSFTPConnector_CheckStatusRejected(t *testing.T) {
	client := inMemSFTPClient(t)
	writeResponseFile(t, client, "/WPS-REF-2.RES", "REJECTED invalid routing code\n")

	c := sftpTestConnector(client)
	result, err := c.CheckStatus(context.Background(), "WPS-REF-2")

	require.NoError(t, err)
	assert.True(t, result.Settled)
	assert.False(t, result.Success)
	assert.Equal(t, "999", result.ResponseCode)
}

func TestSFTPConnector_CheckStatusNoResponseYet(t *testing.T) {
	client := inMemSFTPClient(t)

	c := sftpTestConnector(client)
	result, err := c.CheckStatus(context.Background(), "WPS-REF-3")

	require.NoError(t, err)
	assert.False(t, result.Settled)
}
