package postgres

// attendanceCondition is the SQL form of
// domain.PaymentMethod.CountsTowardAttendance, written against a tickets row
// aliased t joined to its tier aliased tt. Every query that decides whether a
// ticket occupies a seat (per-user quota, tier capacity, confirmed attendee
// count) must use this fragment so the predicates cannot drift.
const attendanceCondition = `(
		(tt.payment_method = 'ONLINE' AND t.status IN ('ACTIVE', 'CHECKED_IN'))
		OR (tt.payment_method <> 'ONLINE' AND t.status IN ('PENDING', 'ACTIVE', 'CHECKED_IN'))
	)`
