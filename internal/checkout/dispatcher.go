package checkout

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"unicode"
)

const (
	DefaultScheme      = "https"
	DefaultDomain      = "wa.me"
	DefaultDestination = "5514996746904"
)

var (
	ErrInvalidTarget = errors.New("invalid checkout target")
	ErrNoOpener      = errors.New("no opener configured")
)

type Config struct {
	Scheme      string
	Domain      string
	Destination string
}

// Dispatcher turns an order message into a messaging deep link and hands the
// link to the host.
type Dispatcher struct {
	base string
}

func New(cfg Config) (*Dispatcher, error) {
	scheme := strings.ToLower(strings.TrimSpace(cfg.Scheme))
	if scheme == "" {
		scheme = DefaultScheme
	}
	domain := strings.TrimSpace(cfg.Domain)
	if domain == "" {
		domain = DefaultDomain
	}
	dest := strings.TrimSpace(cfg.Destination)
	if dest == "" {
		dest = DefaultDestination
	}
	for _, r := range scheme {
		if !(r >= 'a' && r <= 'z') && !unicode.IsDigit(r) && r != '+' && r != '-' && r != '.' {
			return nil, fmt.Errorf("%w: scheme %q", ErrInvalidTarget, cfg.Scheme)
		}
	}
	if strings.ContainsAny(domain, "/?# ") {
		return nil, fmt.Errorf("%w: domain %q", ErrInvalidTarget, cfg.Domain)
	}
	for _, r := range dest {
		if !unicode.IsDigit(r) {
			return nil, fmt.Errorf("%w: destination %q must be digits only", ErrInvalidTarget, cfg.Destination)
		}
	}
	return &Dispatcher{base: scheme + "://" + domain + "/" + dest}, nil
}

// Encode percent-encodes message for a URI query component. Spaces become
// %20 and non-ASCII runes are encoded as their UTF-8 bytes.
func Encode(message string) string {
	return strings.ReplaceAll(url.QueryEscape(message), "+", "%20")
}

func (d *Dispatcher) Link(message string) string {
	return d.base + "?text=" + Encode(message)
}

// Dispatch builds the link for message and asks opener to open it. The link
// is returned even when opening fails.
func (d *Dispatcher) Dispatch(ctx context.Context, message string, opener Opener) (string, error) {
	link := d.Link(message)
	if opener == nil {
		return link, ErrNoOpener
	}
	if err := opener.Open(ctx, link); err != nil {
		return link, fmt.Errorf("open checkout link: %w", err)
	}
	return link, nil
}
