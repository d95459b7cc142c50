// Package discovery finds the cameras of an address range that the NVR
// already knows about.
package discovery

import (
	"context"
	"fmt"
	"log/slog"
	"net/netip"
	"slices"
	"sync"

	"github.com/Flarenzy/labcam/internal/domain"
	"go4.org/netipx"
	"golang.org/x/sync/errgroup"
)

const (
	// MinPrefixBits bounds a scan to 1024 addresses.
	MinPrefixBits      = 22
	DefaultConcurrency = 16
)

type Scanner struct {
	registry    domain.CameraRegistry
	concurrency int
	logger      *slog.Logger
}

func NewScanner(registry domain.CameraRegistry, concurrency int, logger *slog.Logger) *Scanner {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Scanner{registry: registry, concurrency: concurrency, logger: logger}
}

// Scan checks every host address of prefix and returns the ones the NVR
// recognises, ordered by address. Lookups that fail are logged and skipped.
func (s *Scanner) Scan(ctx context.Context, prefix netip.Prefix) ([]domain.DiscoveredCamera, error) {
	hosts, err := HostAddrs(prefix)
	if err != nil {
		return nil, err
	}

	var (
		mu    sync.Mutex
		found []domain.DiscoveredCamera
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for _, addr := range hosts {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			lookup, err := s.registry.CheckCamera(gctx, addr.String())
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				s.logger.WarnContext(gctx, "skipping address", "ip", addr.String(), "err", err.Error())
				return nil
			}
			if !lookup.Found {
				return nil
			}

			mu.Lock()
			found = append(found, domain.DiscoveredCamera{IP: addr, DeviceInfo: lookup.DeviceInfo})
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	slices.SortFunc(found, func(a, b domain.DiscoveredCamera) int {
		return a.IP.Compare(b.IP)
	})
	s.logger.InfoContext(ctx, "scan finished", "prefix", prefix.String(), "scanned", len(hosts), "found", len(found))
	return found, nil
}

// HostAddrs lists the usable addresses of an IPv4 prefix. Network and
// broadcast addresses are left out except on /31 and /32.
func HostAddrs(prefix netip.Prefix) ([]netip.Addr, error) {
	if !prefix.IsValid() || !prefix.Addr().Is4() {
		return nil, fmt.Errorf("%w: %q is not an IPv4 prefix", domain.ErrInvalidInput, prefix)
	}
	if prefix.Bits() < MinPrefixBits {
		return nil, fmt.Errorf("%w: prefix %s is larger than /%d", domain.ErrInvalidInput, prefix, MinPrefixBits)
	}

	r := netipx.RangeOfPrefix(prefix.Masked())
	skipEdges := prefix.Bits() < 31

	var out []netip.Addr
	for addr := r.From(); r.Contains(addr); addr = addr.Next() {
		if skipEdges && (addr == r.From() || addr == r.To()) {
			continue
		}
		out = append(out, addr)
		if addr == r.To() {
			break
		}
	}
	return out, nil
}
