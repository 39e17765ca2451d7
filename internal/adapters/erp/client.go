// internal/adapters/erp/client.go
package erp

import (
	"bytes"
	"context"
	crand "crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/teamslict/hotel/internal/adapters/observability"
	"github.com/teamslict/hotel/internal/domain"
)

// Client talks to the ERP public hotel API. GETs are retried on 429 and
// transient 5xx with client-side rate limiting; writes are issued exactly
// once, so a failed booking resubmission is a brand-new request.
type Client struct {
	base string
	hc   *http.Client
	key  string
	rl   *rate.Limiter
}

func New(base, key string, rps int) (*Client, error) {
	if base == "" {
		return nil, fmt.Errorf("ERP base URL is required")
	}
	if rps <= 0 {
		rps = 5
	}
	return &Client{
		base: strings.TrimRight(base, "/"),
		hc:   &http.Client{Timeout: 20 * time.Second},
		key:  key,
		rl:   rate.NewLimiter(rate.Limit(rps), rps),
	}, nil
}

// ---- BookingSource ----

func (c *Client) GetTenantConfig(ctx context.Context, subdomain string) (domain.Tenant, error) {
	var out domain.Tenant
	u := fmt.Sprintf("%s/config?subdomain=%s", c.base, url.QueryEscape(subdomain))
	if err := c.get(ctx, "config", u, &out); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Tenant{}, domain.ErrTenantNotFound
		}
		return domain.Tenant{}, err
	}
	return out, nil
}

func (c *Client) ListRooms(ctx context.Context, q domain.StayQuery) ([]domain.Room, error) {
	v := url.Values{}
	v.Set("tenantId", q.TenantID)
	if q.CheckIn != "" {
		v.Set("checkIn", q.CheckIn)
	}
	if q.CheckOut != "" {
		v.Set("checkOut", q.CheckOut)
	}
	if q.Guests > 0 {
		v.Set("guests", strconv.Itoa(q.Guests))
	}
	var out []domain.Room
	return out, c.get(ctx, "rooms", c.base+"/rooms?"+v.Encode(), &out)
}

func (c *Client) GetRoom(ctx context.Context, id string) (domain.Room, error) {
	var out domain.Room
	return out, c.get(ctx, "room", c.base+"/rooms/"+url.PathEscape(id), &out)
}

func (c *Client) CreateRoom(ctx context.Context, r domain.Room) (domain.Room, error) {
	var out domain.Room
	return out, c.write(ctx, "room_create", http.MethodPost, c.base+"/rooms", r, &out)
}

func (c *Client) UpdateRoom(ctx context.Context, id string, p domain.RoomPatch) error {
	return c.write(ctx, "room_update", http.MethodPatch, c.base+"/rooms/"+url.PathEscape(id), p, nil)
}

func (c *Client) DeleteRoom(ctx context.Context, id string) error {
	return c.write(ctx, "room_delete", http.MethodDelete, c.base+"/rooms/"+url.PathEscape(id), nil, nil)
}

func (c *Client) CreateBooking(ctx context.Context, br domain.BookingRequest) (domain.BookingConfirmation, error) {
	var out domain.BookingConfirmation
	return out, c.write(ctx, "booking_create", http.MethodPost, c.base+"/bookings", br, &out)
}

func (c *Client) ListBranches(ctx context.Context, subdomain string) ([]domain.Branch, error) {
	var out []domain.Branch
	u := fmt.Sprintf("%s/branches?subdomain=%s", c.base, url.QueryEscape(subdomain))
	return out, c.get(ctx, "branches", u, &out)
}

// ---- Internals ----

// get performs a GET with client-side rate limiting, retries, and JSON decode
// into out. Retries on 429 and transient 5xx, honoring Retry-After when
// provided.
func (c *Client) get(ctx context.Context, endpoint, url string, out any) error {
	if err := c.rl.Wait(ctx); err != nil {
		return err
	}

	var lastErr error
	for i := 0; i < 4; i++ {
		// build a fresh request each attempt
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}
		c.setHeaders(req)

		start := time.Now()
		resp, err := c.hc.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			observability.ObserveExternal("erp", endpoint, 0, time.Since(start))
			lastErr = err
			if i < 3 && sleepCtx(ctx, backoff(i)) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return lastErr
		}
		observability.ObserveExternal("erp", endpoint, resp.StatusCode, time.Since(start))

		switch resp.StatusCode {
		case http.StatusOK, http.StatusCreated, http.StatusAccepted:
			err := json.NewDecoder(resp.Body).Decode(out)
			resp.Body.Close()
			return err

		case http.StatusNoContent:
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			return nil

		case http.StatusNotFound:
			resp.Body.Close()
			return domain.ErrNotFound

		case http.StatusUnauthorized:
			resp.Body.Close()
			return domain.ErrUnauthorized

		case http.StatusForbidden:
			resp.Body.Close()
			return domain.ErrForbidden

		case http.StatusTooManyRequests, http.StatusInternalServerError,
			http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			// Prefer server-provided Retry-After; otherwise exponential backoff.
			wait := retryAfter(resp)
			resp.Body.Close()
			if wait == 0 {
				wait = backoff(i)
			}
			lastErr = fmt.Errorf("erp %d", resp.StatusCode)
			if i < 3 && sleepCtx(ctx, wait) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return lastErr

		default:
			b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			resp.Body.Close()
			return fmt.Errorf("bad status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
		}
	}

	return lastErr
}

// write issues a single non-idempotent request. 409 maps to ErrConflict and
// is terminal.
func (c *Client) write(ctx context.Context, endpoint, method, url string, in, out any) error {
	if err := c.rl.Wait(ctx); err != nil {
		return err
	}

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return err
	}
	c.setHeaders(req)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		observability.ObserveExternal("erp", endpoint, 0, time.Since(start))
		return err
	}
	defer resp.Body.Close()
	observability.ObserveExternal("erp", endpoint, resp.StatusCode, time.Since(start))

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated, http.StatusAccepted:
		if out == nil {
			io.Copy(io.Discard, resp.Body)
			return nil
		}
		return json.NewDecoder(resp.Body).Decode(out)
	case http.StatusNoContent:
		io.Copy(io.Discard, resp.Body)
		return nil
	case http.StatusNotFound:
		return domain.ErrNotFound
	case http.StatusUnauthorized:
		return domain.ErrUnauthorized
	case http.StatusForbidden:
		return domain.ErrForbidden
	case http.StatusConflict:
		return domain.ErrConflict
	default:
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("bad status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}
}

func (c *Client) setHeaders(req *http.Request) {
	if c.key != "" {
		req.Header.Set("X-API-Key", c.key)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "hotel-front/1.0")
}

// sleepCtx waits for d or returns early if ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// retryAfter parses Retry-After header (seconds or HTTP-date). Returns 0 if absent/invalid.
func retryAfter(resp *http.Response) time.Duration {
	h := resp.Header.Get("Retry-After")
	if h == "" {
		return 0
	}
	if secs, err := strconv.Atoi(strings.TrimSpace(h)); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(h); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

// backoff returns an exponential backoff delay with concurrency-safe jitter.
// i = retry attempt (0,1,2,...). Base doubles each attempt (200ms, 400ms, 800ms...),
// with up to +50% random jitter to avoid thundering herds.
func backoff(i int) time.Duration {
	base := time.Duration(1<<i) * 200 * time.Millisecond
	var b [1]byte
	if _, err := crand.Read(b[:]); err != nil {
		return base
	}
	f := float64(b[0]) / 255.0
	j := time.Duration(0.5 * f * float64(base))
	return base + j
}
