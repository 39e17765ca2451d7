package mysql

import (
	"context"
	"database/sql"

	"github.com/teamslict/hotel/internal/domain"
)

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

func (r *Repo) LogBooking(ctx context.Context, br domain.BookingRequest, out domain.BookingOutcome) error {
	var number any
	var total any
	if out.Confirmation != nil {
		number = out.Confirmation.BookingNumber
		total = out.Confirmation.TotalAmount
	}
	var reason any
	if out.Reason != "" {
		reason = out.Reason
	}
	_, err := r.db.ExecContext(ctx, insertBookingLogSQL,
		br.TenantID,
		br.RoomID,
		br.RateName,
		br.GuestEmail,
		br.CheckIn,
		br.CheckOut,
		br.Guests,
		string(out.State),
		number,
		total,
		reason,
	)
	return err
}

func (r *Repo) LogResolveMiss(ctx context.Context, subdomain string, status int, reason string) error {
	_, err := r.db.ExecContext(ctx, insertResolveMissSQL, subdomain, status, reason)
	return err
}

func (r *Repo) ListBookingLog(ctx context.Context, tenantID string, limit int) ([]domain.BookingLogEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx, listBookingLogSQL, tenantID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.BookingLogEntry
	for rows.Next() {
		var e domain.BookingLogEntry
		var state string
		var number, reason sql.NullString
		var total sql.NullFloat64
		if err := rows.Scan(
			&e.ID,
			&e.TenantID,
			&e.RoomID,
			&e.RateName,
			&e.GuestEmail,
			&e.CheckIn,
			&e.CheckOut,
			&e.Guests,
			&state,
			&number,
			&total,
			&reason,
		); err != nil {
			return nil, err
		}
		e.State = domain.BookingState(state)
		if number.Valid {
			n := number.String
			e.BookingNumber = &n
		}
		if total.Valid {
			v := total.Float64
			e.TotalAmount = &v
		}
		if reason.Valid {
			s := reason.String
			e.Reason = &s
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
