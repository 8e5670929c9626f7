package repositories

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"

	"club_admin_backend/internal/dataset"
	"club_admin_backend/internal/models"
	"club_admin_backend/internal/store"
	"club_admin_backend/pkg/utils"

	"github.com/lib/pq"
)

// Schema creates the dataset tables. Every statement is idempotent.
//
//go:embed schema.sql
var Schema string

// DatasetRepository reads the backing dataset from PostgreSQL and can seed it.
type DatasetRepository interface {
	store.Source
	Seed(ctx context.Context, ds *dataset.Dataset) error
}

type datasetRepository struct {
	db *sql.DB
}

// NewDatasetRepository creates a new instance of DatasetRepository.
func NewDatasetRepository(db *sql.DB) DatasetRepository {
	return &datasetRepository{db: db}
}

func queryAll[E any](ctx context.Context, ex SQLExecutor, op, query string, scan func(scanner) (E, error), args ...interface{}) ([]E, error) {
	rows, err := ex.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapError(err, op)
	}
	defer rows.Close()

	out := []E{}
	for rows.Next() {
		e, err := scan(rows)
		if err != nil {
			return nil, wrapError(err, op)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapError(err, op)
	}
	return out, nil
}

func fromNullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func toNullString(s *string) sql.NullString {
	if s == nil || *s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// textArray never yields NULL, the columns are NOT NULL.
func textArray(s []string) interface{} {
	if s == nil {
		s = []string{}
	}
	return pq.Array(s)
}

const clubColumns = `id, name, location, address, contact_number, phone, email, admin_id, admin_ids, created_at, updated_at`

func scanClub(s scanner) (models.Club, error) {
	var c models.Club
	err := s.Scan(&c.ID, &c.Name, &c.Location, &c.Address, &c.ContactNumber, &c.Phone, &c.Email,
		&c.AdminID, pq.Array(&c.AdminIDs), &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

// Clubs returns every club ordered by id.
func (r *datasetRepository) Clubs(ctx context.Context) ([]models.Club, error) {
	return queryAll(ctx, r.db, "listing clubs", `SELECT `+clubColumns+` FROM clubs ORDER BY id`, scanClub)
}

// Users returns every dashboard user ordered by id.
func (r *datasetRepository) Users(ctx context.Context) ([]models.User, error) {
	query := `SELECT id, username, name, email, phone, role, created_by_id, club_ids, created_at, updated_at
	          FROM users ORDER BY id`
	return queryAll(ctx, r.db, "listing users", query, func(s scanner) (models.User, error) {
		var u models.User
		var createdBy sql.NullString
		err := s.Scan(&u.ID, &u.Username, &u.Name, &u.Email, &u.Phone, &u.Role, &createdBy,
			pq.Array(&u.ClubIDs), &u.CreatedAt, &u.UpdatedAt)
		u.CreatedByID = fromNullString(createdBy)
		return u, err
	})
}

// ClubData reads the nine club-scoped tables and the club's dashboard metrics.
func (r *datasetRepository) ClubData(ctx context.Context, clubID string) (*store.ClubData, error) {
	out := &store.ClubData{}

	club, err := scanClub(r.db.QueryRowContext(ctx, `SELECT `+clubColumns+` FROM clubs WHERE id = $1`, clubID))
	switch {
	case err == nil:
		out.Club = &club
	case errors.Is(err, sql.ErrNoRows):
	default:
		return nil, wrapError(err, "fetching club")
	}

	if out.Members, err = r.members(ctx, clubID); err != nil {
		return nil, err
	}
	if out.Trials, err = r.trials(ctx, clubID); err != nil {
		return nil, err
	}
	if out.Visitors, err = r.visitors(ctx, clubID); err != nil {
		return nil, err
	}
	if out.Payments, err = r.payments(ctx, clubID); err != nil {
		return nil, err
	}
	if out.Expenses, err = r.expenses(ctx, clubID); err != nil {
		return nil, err
	}
	if out.InventoryItems, err = r.inventoryItems(ctx, clubID); err != nil {
		return nil, err
	}
	if out.InventoryUsage, err = r.inventoryUsage(ctx, clubID); err != nil {
		return nil, err
	}
	if out.Attendance, err = r.attendance(ctx, clubID); err != nil {
		return nil, err
	}
	if out.SubscriptionPlans, err = r.plans(ctx, clubID); err != nil {
		return nil, err
	}
	if out.Metrics, err = r.metrics(ctx, clubID); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *datasetRepository) members(ctx context.Context, clubID string) ([]models.Member, error) {
	query := `SELECT id, club_id, name, mobile, address, referral_source, visit_date, member_id,
	                 membership_start_date, membership_end_date, subscription_plan_id, is_active,
	                 phone, email, status, join_date, created_at, updated_at
	          FROM members WHERE club_id = $1 ORDER BY created_at, id`
	return queryAll(ctx, r.db, "listing members", query, func(s scanner) (models.Member, error) {
		var m models.Member
		var join sql.NullTime
		err := s.Scan(&m.ID, &m.ClubID, &m.Name, &m.Mobile, &m.Address, &m.ReferralSource, &m.VisitDate,
			&m.MemberID, &m.MembershipStartDate, &m.MembershipEndDate, &m.SubscriptionPlanID, &m.IsActive,
			&m.Phone, &m.Email, &m.Status, &join, &m.CreatedAt, &m.UpdatedAt)
		m.Type = models.VisitTypeMember
		if join.Valid {
			t := join.Time
			m.JoinDate = &t
		}
		return m, err
	}, clubID)
}

func (r *datasetRepository) trials(ctx context.Context, clubID string) ([]models.Trial, error) {
	query := `SELECT id, club_id, name, mobile, address, referral_source, visit_date, fee,
	                 trial_start_date, trial_end_date, converted_to_member, created_at, updated_at
	          FROM trials WHERE club_id = $1 ORDER BY created_at, id`
	return queryAll(ctx, r.db, "listing trials", query, func(s scanner) (models.Trial, error) {
		var t models.Trial
		err := s.Scan(&t.ID, &t.ClubID, &t.Name, &t.Mobile, &t.Address, &t.ReferralSource, &t.VisitDate,
			&t.Fee, &t.TrialStartDate, &t.TrialEndDate, &t.ConvertedToMember, &t.CreatedAt, &t.UpdatedAt)
		t.Type = models.VisitTypeTrial
		return t, err
	}, clubID)
}

func (r *datasetRepository) visitors(ctx context.Context, clubID string) ([]models.Visitor, error) {
	query := `SELECT id, club_id, name, mobile, address, referral_source, visit_date, created_at, updated_at
	          FROM visitors WHERE club_id = $1 ORDER BY created_at, id`
	return queryAll(ctx, r.db, "listing visitors", query, func(s scanner) (models.Visitor, error) {
		var v models.Visitor
		err := s.Scan(&v.ID, &v.ClubID, &v.Name, &v.Mobile, &v.Address, &v.ReferralSource, &v.VisitDate,
			&v.CreatedAt, &v.UpdatedAt)
		v.Type = models.VisitTypeVisitor
		return v, err
	}, clubID)
}

func (r *datasetRepository) payments(ctx context.Context, clubID string) ([]models.Payment, error) {
	query := `SELECT id, club_id, amount, date, payment_method, status, pending_amount, member_id, trial_id,
	                 created_at, updated_at
	          FROM payments WHERE club_id = $1 ORDER BY created_at, id`
	return queryAll(ctx, r.db, "listing payments", query, func(s scanner) (models.Payment, error) {
		var p models.Payment
		var memberID, trialID sql.NullString
		err := s.Scan(&p.ID, &p.ClubID, &p.Amount, &p.Date, &p.PaymentMethod, &p.Status, &p.PendingAmount,
			&memberID, &trialID, &p.CreatedAt, &p.UpdatedAt)
		p.MemberID = fromNullString(memberID)
		p.TrialID = fromNullString(trialID)
		return p, err
	}, clubID)
}

func (r *datasetRepository) expenses(ctx context.Context, clubID string) ([]models.Expense, error) {
	query := `SELECT id, club_id, description, amount, date, category, created_at, updated_at
	          FROM expenses WHERE club_id = $1 ORDER BY created_at, id`
	return queryAll(ctx, r.db, "listing expenses", query, func(s scanner) (models.Expense, error) {
		var e models.Expense
		err := s.Scan(&e.ID, &e.ClubID, &e.Description, &e.Amount, &e.Date, &e.Category, &e.CreatedAt, &e.UpdatedAt)
		return e, err
	}, clubID)
}

func (r *datasetRepository) inventoryItems(ctx context.Context, clubID string) ([]models.InventoryItem, error) {
	query := `SELECT id, club_id, name, description, category, quantity, min_threshold, unit, unit_price,
	                 created_at, updated_at
	          FROM inventory_items WHERE club_id = $1 ORDER BY created_at, id`
	return queryAll(ctx, r.db, "listing inventory items", query, func(s scanner) (models.InventoryItem, error) {
		var i models.InventoryItem
		err := s.Scan(&i.ID, &i.ClubID, &i.Name, &i.Description, &i.Category, &i.Quantity, &i.MinThreshold,
			&i.Unit, &i.UnitPrice, &i.CreatedAt, &i.UpdatedAt)
		return i, err
	}, clubID)
}

func (r *datasetRepository) inventoryUsage(ctx context.Context, clubID string) ([]models.InventoryUsage, error) {
	query := `SELECT id, club_id, date, quantity, inventory_item_id, member_id, created_at, updated_at
	          FROM inventory_usage WHERE club_id = $1 ORDER BY created_at, id`
	return queryAll(ctx, r.db, "listing inventory usage", query, func(s scanner) (models.InventoryUsage, error) {
		var u models.InventoryUsage
		var memberID sql.NullString
		err := s.Scan(&u.ID, &u.ClubID, &u.Date, &u.Quantity, &u.InventoryItemID, &memberID, &u.CreatedAt, &u.UpdatedAt)
		u.MemberID = fromNullString(memberID)
		return u, err
	}, clubID)
}

func (r *datasetRepository) attendance(ctx context.Context, clubID string) ([]models.Attendance, error) {
	query := `SELECT id, club_id, date, status, member_id, notes, created_at, updated_at
	          FROM attendance WHERE club_id = $1 ORDER BY created_at, id`
	return queryAll(ctx, r.db, "listing attendance", query, func(s scanner) (models.Attendance, error) {
		var a models.Attendance
		err := s.Scan(&a.ID, &a.ClubID, &a.Date, &a.Status, &a.MemberID, &a.Notes, &a.CreatedAt, &a.UpdatedAt)
		return a, err
	}, clubID)
}

func (r *datasetRepository) plans(ctx context.Context, clubID string) ([]models.SubscriptionPlan, error) {
	query := `SELECT id, club_id, name, description, duration, price, features, is_active, created_at, updated_at
	          FROM subscription_plans WHERE club_id = $1 ORDER BY created_at, id`
	return queryAll(ctx, r.db, "listing subscription plans", query, func(s scanner) (models.SubscriptionPlan, error) {
		var p models.SubscriptionPlan
		err := s.Scan(&p.ID, &p.ClubID, &p.Name, &p.Description, &p.Duration, &p.Price, pq.Array(&p.Features),
			&p.IsActive, &p.CreatedAt, &p.UpdatedAt)
		return p, err
	}, clubID)
}

// metrics prefers the club's own row and falls back to the shared '' row.
func (r *datasetRepository) metrics(ctx context.Context, clubID string) (*models.DashboardMetrics, error) {
	var payload []byte
	err := r.db.QueryRowContext(ctx,
		`SELECT payload FROM dashboard_metrics WHERE club_id IN ($1, '') ORDER BY club_id DESC LIMIT 1`,
		clubID).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, wrapError(err, "fetching dashboard metrics")
	}
	var m models.DashboardMetrics
	if err := json.Unmarshal(payload, &m); err != nil {
		return nil, fmt.Errorf("%w: decoding dashboard metrics: %v", ErrDatabaseError, err)
	}
	return &m, nil
}

// Seed inserts ds inside one transaction. Rows whose id already exists are left alone.
func (r *datasetRepository) Seed(ctx context.Context, ds *dataset.Dataset) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return wrapError(err, "starting seed transaction")
	}
	if err := seed(ctx, tx, ds); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			utils.LogError(rbErr, "Seed: rollback failed")
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return wrapError(err, "committing seed transaction")
	}
	utils.LogInfo("Dataset seeded", map[string]interface{}{"clubs": len(ds.Clubs), "users": len(ds.Users)})
	return nil
}

func seed(ctx context.Context, ex SQLExecutor, ds *dataset.Dataset) error {
	exec := func(op, query string, args ...interface{}) error {
		if _, err := ex.ExecContext(ctx, query, args...); err != nil {
			return wrapError(err, op)
		}
		return nil
	}

	for _, u := range ds.Users {
		if err := exec("seeding user", `INSERT INTO users (id, username, name, email, phone, role, created_by_id, club_ids, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) ON CONFLICT (id) DO NOTHING`,
			u.ID, u.Username, u.Name, u.Email, u.Phone, u.Role, toNullString(u.CreatedByID), textArray(u.ClubIDs),
			u.CreatedAt, u.UpdatedAt); err != nil {
			return err
		}
	}
	for _, c := range ds.Clubs {
		if err := exec("seeding club", `INSERT INTO clubs (id, name, location, address, contact_number, phone, email, admin_id, admin_ids, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11) ON CONFLICT (id) DO NOTHING`,
			c.ID, c.Name, c.Location, c.Address, c.ContactNumber, c.Phone, c.Email, c.AdminID, textArray(c.AdminIDs),
			c.CreatedAt, c.UpdatedAt); err != nil {
			return err
		}
	}
	for _, p := range ds.SubscriptionPlans {
		if err := exec("seeding subscription plan", `INSERT INTO subscription_plans (id, club_id, name, description, duration, price, features, is_active, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) ON CONFLICT (id) DO NOTHING`,
			p.ID, p.ClubID, p.Name, p.Description, p.Duration, p.Price, textArray(p.Features), p.IsActive,
			p.CreatedAt, p.UpdatedAt); err != nil {
			return err
		}
	}
	for _, m := range ds.Members {
		var join sql.NullTime
		if m.JoinDate != nil {
			join = sql.NullTime{Time: *m.JoinDate, Valid: true}
		}
		if err := exec("seeding member", `INSERT INTO members (id, club_id, name, mobile, address, referral_source, visit_date, member_id,
				membership_start_date, membership_end_date, subscription_plan_id, is_active, phone, email, status, join_date, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18) ON CONFLICT (id) DO NOTHING`,
			m.ID, m.ClubID, m.Name, m.Mobile, m.Address, m.ReferralSource, m.VisitDate, m.MemberID,
			m.MembershipStartDate, m.MembershipEndDate, m.SubscriptionPlanID, m.IsActive, m.Phone, m.Email, m.Status, join,
			m.CreatedAt, m.UpdatedAt); err != nil {
			return err
		}
	}
	for _, t := range ds.Trials {
		if err := exec("seeding trial", `INSERT INTO trials (id, club_id, name, mobile, address, referral_source, visit_date, fee,
				trial_start_date, trial_end_date, converted_to_member, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13) ON CONFLICT (id) DO NOTHING`,
			t.ID, t.ClubID, t.Name, t.Mobile, t.Address, t.ReferralSource, t.VisitDate, t.Fee,
			t.TrialStartDate, t.TrialEndDate, t.ConvertedToMember, t.CreatedAt, t.UpdatedAt); err != nil {
			return err
		}
	}
	for _, v := range ds.Visitors {
		if err := exec("seeding visitor", `INSERT INTO visitors (id, club_id, name, mobile, address, referral_source, visit_date, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) ON CONFLICT (id) DO NOTHING`,
			v.ID, v.ClubID, v.Name, v.Mobile, v.Address, v.ReferralSource, v.VisitDate, v.CreatedAt, v.UpdatedAt); err != nil {
			return err
		}
	}
	for _, p := range ds.Payments {
		if err := exec("seeding payment", `INSERT INTO payments (id, club_id, amount, date, payment_method, status, pending_amount, member_id, trial_id, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11) ON CONFLICT (id) DO NOTHING`,
			p.ID, p.ClubID, p.Amount, p.Date, p.PaymentMethod, p.Status, p.PendingAmount,
			toNullString(p.MemberID), toNullString(p.TrialID), p.CreatedAt, p.UpdatedAt); err != nil {
			return err
		}
	}
	for _, e := range ds.Expenses {
		if err := exec("seeding expense", `INSERT INTO expenses (id, club_id, description, amount, date, category, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8) ON CONFLICT (id) DO NOTHING`,
			e.ID, e.ClubID, e.Description, e.Amount, e.Date, e.Category, e.CreatedAt, e.UpdatedAt); err != nil {
			return err
		}
	}
	for _, i := range ds.InventoryItems {
		if err := exec("seeding inventory item", `INSERT INTO inventory_items (id, club_id, name, description, category, quantity, min_threshold, unit, unit_price, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11) ON CONFLICT (id) DO NOTHING`,
			i.ID, i.ClubID, i.Name, i.Description, i.Category, i.Quantity, i.MinThreshold, i.Unit, i.UnitPrice,
			i.CreatedAt, i.UpdatedAt); err != nil {
			return err
		}
	}
	for _, u := range ds.InventoryUsage {
		if err := exec("seeding inventory usage", `INSERT INTO inventory_usage (id, club_id, date, quantity, inventory_item_id, member_id, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8) ON CONFLICT (id) DO NOTHING`,
			u.ID, u.ClubID, u.Date, u.Quantity, u.InventoryItemID, toNullString(u.MemberID), u.CreatedAt, u.UpdatedAt); err != nil {
			return err
		}
	}
	for _, a := range ds.Attendance {
		if err := exec("seeding attendance", `INSERT INTO attendance (id, club_id, date, status, member_id, notes, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8) ON CONFLICT (id) DO NOTHING`,
			a.ID, a.ClubID, a.Date, a.Status, a.MemberID, a.Notes, a.CreatedAt, a.UpdatedAt); err != nil {
			return err
		}
	}
	if ds.DashboardMetrics != nil {
		payload, err := json.Marshal(ds.DashboardMetrics)
		if err != nil {
			return fmt.Errorf("encoding dashboard metrics: %w", err)
		}
		if err := exec("seeding dashboard metrics", `INSERT INTO dashboard_metrics (club_id, payload)
			VALUES ('', $1) ON CONFLICT (club_id) DO NOTHING`, payload); err != nil {
			return err
		}
	}
	return nil
}
