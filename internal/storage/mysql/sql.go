package mysql

const insertBookingLogSQL = `
INSERT INTO booking_log
  (tenant_id, room_id, rate_name, guest_email, check_in, check_out, guests, state, booking_number, total_amount, reason)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

// One row per subdomain; repeat misses bump the counter and timestamp.
const insertResolveMissSQL = `
INSERT INTO resolve_misses (subdomain, http_status, reason, hits)
VALUES (?, ?, ?, 1)
ON DUPLICATE KEY UPDATE
  http_status = VALUES(http_status),
  reason      = VALUES(reason),
  hits        = hits + 1,
  seen_at     = CURRENT_TIMESTAMP
`

const listBookingLogSQL = `
SELECT
  id,
  tenant_id,
  room_id,
  rate_name,
  guest_email,
  check_in,
  check_out,
  guests,
  state,
  booking_number,
  total_amount,
  reason
FROM booking_log
WHERE tenant_id = ?
ORDER BY id DESC
LIMIT ?
`
