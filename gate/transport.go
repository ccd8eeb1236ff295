package gate

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"net"
	"os"
	"syscall"

	"github.com/fwojciec/harvest"
)

// ClassifyTransport maps an error from the network layer to a transport
// subkind.
func ClassifyTransport(err error) harvest.TransportKind {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		if dnsErr.IsTimeout {
			return harvest.TransportTimeout
		}
		return harvest.TransportDNS
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, os.ErrDeadlineExceeded) {
		return harvest.TransportTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return harvest.TransportTimeout
	}

	if errors.Is(err, syscall.ECONNREFUSED) {
		return harvest.TransportConnectionRefused
	}

	if isTLSError(err) {
		return harvest.TransportTLS
	}
	return harvest.TransportOther
}

func isTLSError(err error) bool {
	var (
		verifyErr   *tls.CertificateVerificationError
		recordErr   tls.RecordHeaderError
		alertErr    tls.AlertError
		authorityEr x509.UnknownAuthorityError
		hostnameErr x509.HostnameError
		invalidErr  x509.CertificateInvalidError
	)
	return errors.As(err, &verifyErr) ||
		errors.As(err, &recordErr) ||
		errors.As(err, &alertErr) ||
		errors.As(err, &authorityEr) ||
		errors.As(err, &hostnameErr) ||
		errors.As(err, &invalidErr)
}

type transportAdvice struct {
	message    string
	suggestion string
}

var transportMessages = map[harvest.TransportKind]transportAdvice{
	harvest.TransportDNS: {
		"DNS lookup failed for domain.",
		"1. Check if the domain name is spelled correctly.\n" +
			"2. Verify your internet connection.\n" +
			"3. The website might be down or doesn't exist.",
	},
	harvest.TransportTimeout: {
		"Connection timed out while trying to reach the server.",
		"1. The server might be slow or overloaded.\n" +
			"2. Try increasing the timeout.\n" +
			"3. Check if the website is accessible from a browser.",
	},
	harvest.TransportConnectionRefused: {
		"Connection was refused by the server.",
		"1. The server might be down.\n" +
			"2. The port might be blocked.\n" +
			"3. Firewall might be blocking the connection.",
	},
	harvest.TransportTLS: {
		"SSL/TLS certificate verification failed.",
		"1. The site's SSL certificate might be expired or invalid.\n" +
			"2. Your system's CA certificates might be outdated.",
	},
	harvest.TransportOther: {
		"Request failed",
		"Check the error details and try again.",
	},
}
