package mediafire

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
)

var (
	// ErrPermissionDenied means a non-file response carried no download link,
	// which is what the site serves for links that are not publicly shared.
	ErrPermissionDenied = errors.New("permission denied")
	ErrTooManyHops      = errors.New("too many redirects")
	ErrPageTooLarge     = errors.New("confirmation page too large")
)

// TransportError is a TLS or network failure while talking to url.
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	if e.TLS() {
		return fmt.Sprintf("SSL error: %v", e.Err)
	}
	return fmt.Sprintf("request error: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// TLS reports whether the failure happened during certificate verification.
func (e *TransportError) TLS() bool {
	var verifyErr *tls.CertificateVerificationError
	var authorityErr x509.UnknownAuthorityError
	var hostnameErr x509.HostnameError
	var invalidErr x509.CertificateInvalidError
	var recordErr tls.RecordHeaderError
	return errors.As(e.Err, &verifyErr) ||
		errors.As(e.Err, &authorityErr) ||
		errors.As(e.Err, &hostnameErr) ||
		errors.As(e.Err, &invalidErr) ||
		errors.As(e.Err, &recordErr)
}

// LocalIOError is a failure writing the body to its destination.
type LocalIOError struct {
	Path string
	Err  error
}

func (e *LocalIOError) Error() string {
	return fmt.Sprintf("error writing %s: %v", e.Path, e.Err)
}

func (e *LocalIOError) Unwrap() error { return e.Err }
