package connectors

import (
	"context"
	"fmt"
	"io"
	"net"
	"path"
	"strings"
	"time"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"

	"github.com/mtc-jordan/tazweed-wps/internal/apperrors"
	"github.com/mtc-jordan/tazweed-wps/internal/core/domain"
	"github.com/mtc-jordan/tazweed-wps/internal/core/ports"
)

// sftpConnector drops salary files into a bank's pickup directory. Settlement
// arrives out of band as a response file named after the submission reference.
type sftpConnector struct {
	conn domain.BankConnection

	// dial is swappable for tests.
	dial func(ctx context.Context) (*sftp.Client, func(), error)
}

func newSFTPConnector(conn domain.BankConnection) *sftpConnector {
	c := &sftpConnector{conn: conn}
	c.dial = c.dialSFTP
	return c
}

var _ ports.Connector = (*sftpConnector)(nil)

func (c *sftpConnector) dialSFTP(ctx context.Context) (*sftp.Client, func(), error) {
	creds := c.conn.Credentials

	auth := make([]ssh.AuthMethod, 0, 2)
	if creds.SFTPPrivateKey != "" {
		signer, err := ssh.ParsePrivateKey([]byte(creds.SFTPPrivateKey))
		if err != nil {
			return nil, nil, fmt.Errorf("%w: parsing private key: %v", apperrors.ErrTransmission, err)
		}
		auth = append(auth, ssh.PublicKeys(signer))
	}
	if creds.Password != "" {
		auth = append(auth, ssh.Password(creds.Password))
	}

	port := creds.SFTPPort
	if port == 0 {
		port = 22
	}
	addr := net.JoinHostPort(creds.SFTPHost, fmt.Sprintf("%d", port))

	config := &ssh.ClientConfig{
		User:            creds.Username,
		Auth:            auth,
		HostKeyCallback: ssh.InsecureIgnoreHostKey(), // TODO: pin host keys once banks publish them
		Timeout:         15 * time.Second,
	}

	deadline, ok := ctx.Deadline()
	if ok {
		config.Timeout = time.Until(deadline)
	}

	sshClient, err := ssh.Dial("tcp", addr, config)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: ssh dial %s: %v", apperrors.ErrTransmission, addr, err)
	}
	client, err := sftp.NewClient(sshClient)
	if err != nil {
		sshClient.Close()
		return nil, nil, fmt.Errorf("%w: sftp session: %v", apperrors.ErrTransmission, err)
	}
	cleanup := func() {
		client.Close()
		sshClient.Close()
	}
	return client, cleanup, nil
}

func (c *sftpConnector) uploadPath() string {
	p := c.conn.Credentials.SFTPUploadPath
	if p == "" {
		p = "/upload"
	}
	return p
}

// Transmit uploads to a temporary name and renames into place so the bank's
// poller never reads a half-written file.
func (c *sftpConnector) Transmit(ctx context.Context, payload ports.SubmissionPayload) (ports.TransmitResult, error) {
	client, cleanup, err := c.dial(ctx)
	if err != nil {
		return ports.TransmitResult{}, err
	}
	defer cleanup()

	dir := c.uploadPath()
	tmpName := path.Join(dir, payload.FileName+".part")
	finalName := path.Join(dir, payload.FileName)

	f, err := client.Create(tmpName)
	if err != nil {
		return ports.TransmitResult{}, fmt.Errorf("%w: creating %s: %v", apperrors.ErrTransmission, tmpName, err)
	}
	if _, err := f.Write(payload.Content); err != nil {
		f.Close()
		return ports.TransmitResult{}, fmt.Errorf("%w: writing %s: %v", apperrors.ErrTransmission, tmpName, err)
	}
	if err := f.Close(); err != nil {
		return ports.TransmitResult{}, fmt.Errorf("%w: closing %s: %v", apperrors.ErrTransmission, tmpName, err)
	}
	if err := client.PosixRename(tmpName, finalName); err != nil {
		return ports.TransmitResult{}, fmt.Errorf("%w: renaming into place: %v", apperrors.ErrTransmission, err)
	}

	// The drop itself is the acceptance; settlement comes later via the
	// response file polled by CheckStatus.
	return ports.TransmitResult{
		Accepted:        true,
		BankReference:   payload.Reference,
		ResponseMessage: "file delivered to " + finalName,
	}, nil
}

// CheckStatus looks for <reference>.RES in the upload directory. Absence means
// the bank has not answered yet.
func (c *sftpConnector) CheckStatus(ctx context.Context, bankReference string) (ports.StatusResult, error) {
	client, cleanup, err := c.dial(ctx)
	if err != nil {
		return ports.StatusResult{}, err
	}
	defer cleanup()

	resName := path.Join(c.uploadPath(), bankReference+".RES")
	f, err := client.Open(resName)
	if err != nil {
		return ports.StatusResult{}, nil
	}
	defer f.Close()

	// Response files are a few lines at most; the limit guards against a
	// runaway file in the pickup directory.
	raw, err := io.ReadAll(io.LimitReader(f, 64<<10))
	if err != nil {
		return ports.StatusResult{}, fmt.Errorf("%w: reading %s: %v", apperrors.ErrTransmission, resName, err)
	}
	body := strings.TrimSpace(string(raw))

	result := ports.StatusResult{Settled: true, ResponseMessage: body}
	if strings.HasPrefix(body, "OK") {
		result.Success = true
		result.ResponseCode = "000"
	} else {
		result.ResponseCode = "999"
	}
	return result, nil
}

func (c *sftpConnector) Test(ctx context.Context) error {
	client, cleanup, err := c.dial(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	if _, err := client.Stat(c.uploadPath()); err != nil {
		return fmt.Errorf("%w: upload path %s: %v", apperrors.ErrTransmission, c.uploadPath(), err)
	}
	return nil
}
