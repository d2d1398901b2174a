package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/luizhmmachado/school-diary/internal/dates"
	"github.com/luizhmmachado/school-diary/internal/model"
	"github.com/luizhmmachado/school-diary/internal/schedule"
)

// ClassRepository handles class data access. All statements are scoped to the
// owner partition key; cross-user reads are not expressible.
type ClassRepository struct {
	pool *pgxpool.Pool
}

// NewClassRepository creates a new ClassRepository.
func NewClassRepository(pool *pgxpool.Pool) *ClassRepository {
	return &ClassRepository{pool: pool}
}

const classColumns = `owner_id, class_id, name, weekdays, slots_by_weekday, start_date, end_date,
	schedule_by_day, image_url, total_classes, absences, max_absences, min_presence, created_at, updated_at`

func scanClass(row pgx.Row) (*model.Class, error) {
	c := &model.Class{}
	var start, end *time.Time
	err := row.Scan(&c.OwnerID, &c.ClassID, &c.Name, &c.Weekdays, &c.SlotsByWeekday,
		&start, &end, &c.ScheduleByDay, &c.ImageURL, &c.TotalClasses, &c.Absences,
		&c.MaxAbsences, &c.MinPresence, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	c.StartDate = toDate(start)
	c.EndDate = toDate(end)
	return c, nil
}

func toDate(t *time.Time) *dates.Date {
	if t == nil {
		return nil
	}
	d := dates.FromTime(*t)
	return &d
}

func fromDate(d *dates.Date) *time.Time {
	if d == nil {
		return nil
	}
	t := time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
	return &t
}

// List retrieves every class in the owner's partition.
func (r *ClassRepository) List(ctx context.Context, ownerID string) ([]model.Class, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+classColumns+` FROM classes WHERE owner_id = $1 ORDER BY created_at, class_id`,
		ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var classes []model.Class
	for rows.Next() {
		c, err := scanClass(rows)
		if err != nil {
			return nil, err
		}
		classes = append(classes, *c)
	}
	return classes, rows.Err()
}

// Get retrieves one class by partition and item key.
func (r *ClassRepository) Get(ctx context.Context, ownerID, classID string) (*model.Class, error) {
	return scanClass(r.pool.QueryRow(ctx,
		`SELECT `+classColumns+` FROM classes WHERE owner_id = $1 AND class_id = $2`,
		ownerID, classID))
}

// Put inserts a new class.
func (r *ClassRepository) Put(ctx context.Context, c *model.Class) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO classes (owner_id, class_id, name, weekdays, slots_by_weekday, start_date, end_date,
			schedule_by_day, image_url, total_classes, absences, max_absences, min_presence)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		 RETURNING created_at, updated_at`,
		c.OwnerID, c.ClassID, c.Name, c.Weekdays, slotsOrEmpty(c.SlotsByWeekday),
		fromDate(c.StartDate), fromDate(c.EndDate), entriesOrEmpty(c.ScheduleByDay),
		c.ImageURL, c.TotalClasses, c.Absences, c.MaxAbsences, c.MinPresence,
	).Scan(&c.CreatedAt, &c.UpdatedAt)
}

// Update replaces every mutable field of an existing class.
func (r *ClassRepository) Update(ctx context.Context, c *model.Class) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE classes SET name = $3, weekdays = $4, slots_by_weekday = $5, start_date = $6,
			end_date = $7, schedule_by_day = $8, image_url = $9, total_classes = $10,
			absences = $11, max_absences = $12, min_presence = $13, updated_at = CURRENT_TIMESTAMP
		 WHERE owner_id = $1 AND class_id = $2`,
		c.OwnerID, c.ClassID, c.Name, c.Weekdays, slotsOrEmpty(c.SlotsByWeekday),
		fromDate(c.StartDate), fromDate(c.EndDate), entriesOrEmpty(c.ScheduleByDay),
		c.ImageURL, c.TotalClasses, c.Absences, c.MaxAbsences, c.MinPresence,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// IncrementAbsences bumps the absence counter atomically and returns the
// updated class. The counter only ever goes up.
func (r *ClassRepository) IncrementAbsences(ctx context.Context, ownerID, classID string) (*model.Class, error) {
	return scanClass(r.pool.QueryRow(ctx,
		`UPDATE classes SET absences = absences + 1, updated_at = CURRENT_TIMESTAMP
		 WHERE owner_id = $1 AND class_id = $2
		 RETURNING `+classColumns,
		ownerID, classID))
}

// Delete removes a class record. Deleting an absent key is a no-op, keeping
// the operation idempotent for cascade retries.
func (r *ClassRepository) Delete(ctx context.Context, ownerID, classID string) error {
	_, err := r.pool.Exec(ctx,
		`DELETE FROM classes WHERE owner_id = $1 AND class_id = $2`, ownerID, classID)
	return err
}

func slotsOrEmpty(m map[int][]schedule.Slot) map[int][]schedule.Slot {
	if m == nil {
		return map[int][]schedule.Slot{}
	}
	return m
}

func entriesOrEmpty(e []schedule.Entry) []schedule.Entry {
	if e == nil {
		return []schedule.Entry{}
	}
	return e
}
