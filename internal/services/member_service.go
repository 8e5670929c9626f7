package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"club_admin_backend/internal/models"
	"club_admin_backend/internal/session"
	"club_admin_backend/internal/store"
	"club_admin_backend/pkg/utils"
)

// Length of a membership opened without an explicit plan duration.
const defaultMembershipDays = 365

// --- Member DTOs ---
type CreateMemberRequest struct {
	Name               string              `json:"name" binding:"required"`
	Phone              string              `json:"phone"`
	Email              string              `json:"email" binding:"omitempty,email"`
	Address            string              `json:"address"`
	Status             models.MemberStatus `json:"status" binding:"omitempty,oneof=VISITOR TRIAL ACTIVE INACTIVE"`
	JoinDate           *time.Time          `json:"joinDate"`
	SubscriptionPlanID string              `json:"subscriptionPlanId"`
}

type UpdateMemberRequest struct {
	Name               *string              `json:"name"`
	Phone              *string              `json:"phone"`
	Email              *string              `json:"email" binding:"omitempty,email"`
	Address            *string              `json:"address"`
	Status             *models.MemberStatus `json:"status" binding:"omitempty,oneof=VISITOR TRIAL ACTIVE INACTIVE"`
	JoinDate           *time.Time           `json:"joinDate"`
	SubscriptionPlanID *string              `json:"subscriptionPlanId"`
	MembershipEndDate  *time.Time           `json:"membershipEndDate"`
}

// ConvertTrialRequest turns a trial into a member.
type ConvertTrialRequest struct {
	SubscriptionPlanID string `json:"subscriptionPlanId"`
	Phone              string `json:"phone"`
	Email              string `json:"email" binding:"omitempty,email"`
}

// --- MemberService Interface ---
type MemberService interface {
	ListMembers(ctx context.Context, sess *session.Session, clubID string, params models.MemberSearchParams) ([]models.Member, error)
	GetMember(ctx context.Context, sess *session.Session, clubID, memberID string) (*models.Member, error)
	CreateMember(ctx context.Context, sess *session.Session, clubID string, req CreateMemberRequest) (*models.Member, error)
	UpdateMember(ctx context.Context, sess *session.Session, clubID, memberID string, req UpdateMemberRequest) (*models.Member, error)
	DeleteMember(ctx context.Context, sess *session.Session, clubID, memberID string) error
	ConvertTrial(ctx context.Context, sess *session.Session, clubID, trialID string, req ConvertTrialRequest) (*models.Member, error)
	VisitLog(ctx context.Context, sess *session.Session, clubID string) ([]models.VisitRecord, error)
}

// --- memberService Implementation ---
type memberService struct {
	members *ScopedService[models.Member]
	trials  *ScopedService[models.Trial]
}

// NewMemberService creates a new instance of MemberService.
func NewMemberService() MemberService {
	s := &memberService{trials: NewTrialService()}
	s.members = NewScopedService("member",
		func(st *store.EntityStore) *store.Collection[models.Member] { return st.Members },
		func(e *models.Member, clubID string) { e.ClubID = clubID },
		s.prepare)
	return s
}

// prepare applies the member rules shared by every write.
func (s *memberService) prepare(sess *session.Session, m *models.Member, prev *models.Member) error {
	now := sess.Store.Now()
	m.Type = models.VisitTypeMember
	if m.Status == "" {
		m.Status = models.MemberStatusActive
	}
	m.IsActive = m.Status == models.MemberStatusActive
	if m.Phone != "" {
		m.Mobile = m.Phone
	}

	if prev == nil {
		if m.MemberID == "" {
			m.MemberID = nextMemberNumber(sess, now)
		}
		if m.ReferralSource == "" {
			m.ReferralSource = "Direct"
		}
		m.VisitDate = nowOr(m.VisitDate, sess)
		if m.JoinDate == nil {
			today := now
			m.JoinDate = &today
		}
		if m.MembershipStartDate.IsZero() {
			m.MembershipStartDate = *m.JoinDate
		}
		if m.MembershipEndDate.IsZero() {
			m.MembershipEndDate = m.MembershipStartDate.AddDate(0, 0, defaultMembershipDays)
		}
		if m.SubscriptionPlanID == "" {
			m.SubscriptionPlanID = defaultPlanID(sess, m.ClubID)
		}
	} else {
		m.MemberID = prev.MemberID
	}

	if m.SubscriptionPlanID != "" {
		if p, ok := sess.Store.SubscriptionPlans.Get(m.SubscriptionPlanID); !ok || p.ClubID != m.ClubID {
			return fmt.Errorf("%w: subscription plan %s not found in club", ErrValidation, m.SubscriptionPlanID)
		}
	}
	if m.MembershipEndDate.Before(m.MembershipStartDate) {
		return fmt.Errorf("%w: membershipEndDate must not precede membershipStartDate", ErrValidation)
	}
	return nil
}

// nextMemberNumber returns MEM-<unix millis>, bumped until unused in the session.
func nextMemberNumber(sess *session.Session, now time.Time) string {
	taken := map[string]bool{}
	for _, m := range sess.Store.Members.All() {
		taken[m.MemberID] = true
	}
	n := now.UnixMilli()
	for taken[fmt.Sprintf("MEM-%d", n)] {
		n++
	}
	return fmt.Sprintf("MEM-%d", n)
}

// defaultPlanID is the first active plan of the club, or empty.
func defaultPlanID(sess *session.Session, clubID string) string {
	for _, p := range sess.Store.SubscriptionPlans.QueryByClub(clubID) {
		if p.IsActive {
			return p.ID
		}
	}
	return ""
}

var memberStatusOrder = map[models.MemberStatus]int{
	models.MemberStatusVisitor:  1,
	models.MemberStatusTrial:    2,
	models.MemberStatusActive:   3,
	models.MemberStatusInactive: 4,
}

// ListMembers filters by name, email or phone and by status, ordered by status.
func (s *memberService) ListMembers(ctx context.Context, sess *session.Session, clubID string, params models.MemberSearchParams) ([]models.Member, error) {
	all, err := s.members.List(ctx, sess, clubID)
	if err != nil {
		return nil, err
	}
	term := strings.TrimSpace(params.Search)
	status := strings.ToUpper(strings.TrimSpace(params.Status))

	out := make([]models.Member, 0, len(all))
	for _, m := range all {
		if status != "" && status != "ALL" && string(m.Status) != status {
			continue
		}
		if term != "" &&
			!utils.ContainsFold(m.Name, term) &&
			!utils.ContainsFold(m.Email, term) &&
			!strings.Contains(m.Phone, term) &&
			!strings.Contains(m.Mobile, term) {
			continue
		}
		out = append(out, m)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return memberStatusOrder[out[i].Status] < memberStatusOrder[out[j].Status]
	})
	return out, nil
}

func (s *memberService) GetMember(ctx context.Context, sess *session.Session, clubID, memberID string) (*models.Member, error) {
	return s.members.Get(ctx, sess, clubID, memberID)
}

func (s *memberService) CreateMember(ctx context.Context, sess *session.Session, clubID string, req CreateMemberRequest) (*models.Member, error) {
	m := models.Member{
		VisitInfo: models.VisitInfo{
			Name:    strings.TrimSpace(req.Name),
			Address: req.Address,
		},
		Phone:              req.Phone,
		Email:              req.Email,
		Status:             req.Status,
		JoinDate:           req.JoinDate,
		SubscriptionPlanID: req.SubscriptionPlanID,
	}
	if req.JoinDate != nil {
		m.MembershipStartDate = *req.JoinDate
	}
	created, err := s.members.Create(ctx, sess, clubID, m)
	if err != nil {
		return nil, err
	}
	utils.LogInfo("Member created", map[string]interface{}{"club_id": clubID, "member_id": created.MemberID})
	return created, nil
}

func (s *memberService) UpdateMember(ctx context.Context, sess *session.Session, clubID, memberID string, req UpdateMemberRequest) (*models.Member, error) {
	existing, err := s.members.Get(ctx, sess, clubID, memberID)
	if err != nil {
		return nil, err
	}
	m := *existing
	if req.Name != nil {
		m.Name = strings.TrimSpace(*req.Name)
	}
	if req.Phone != nil {
		m.Phone = *req.Phone
		m.Mobile = *req.Phone
	}
	if req.Email != nil {
		m.Email = *req.Email
	}
	if req.Address != nil {
		m.Address = *req.Address
	}
	if req.Status != nil {
		m.Status = *req.Status
	}
	if req.JoinDate != nil {
		m.JoinDate = req.JoinDate
	}
	if req.SubscriptionPlanID != nil {
		m.SubscriptionPlanID = *req.SubscriptionPlanID
	}
	if req.MembershipEndDate != nil {
		m.MembershipEndDate = *req.MembershipEndDate
	}
	return s.members.Update(ctx, sess, clubID, memberID, m)
}

func (s *memberService) DeleteMember(ctx context.Context, sess *session.Session, clubID, memberID string) error {
	return s.members.Delete(ctx, sess, clubID, memberID)
}

// ConvertTrial creates an ACTIVE member from the trial and flags the trial as converted.
// The membership runs for the chosen plan's duration, or a year without a plan.
func (s *memberService) ConvertTrial(ctx context.Context, sess *session.Session, clubID, trialID string, req ConvertTrialRequest) (*models.Member, error) {
	trial, err := s.trials.Get(ctx, sess, clubID, trialID)
	if err != nil {
		return nil, err
	}
	if trial.ConvertedToMember {
		return nil, fmt.Errorf("%w: trial %s already converted", ErrConflict, trialID)
	}

	now := sess.Store.Now()
	m := models.Member{
		VisitInfo: models.VisitInfo{
			Name:           trial.Name,
			Mobile:         trial.Mobile,
			Address:        trial.Address,
			ReferralSource: trial.ReferralSource,
			VisitDate:      trial.VisitDate,
		},
		Phone:               req.Phone,
		Email:               req.Email,
		Status:              models.MemberStatusActive,
		MembershipStartDate: now,
		JoinDate:            &now,
		SubscriptionPlanID:  req.SubscriptionPlanID,
	}
	if m.Phone == "" {
		m.Phone = trial.Mobile
	}
	if req.SubscriptionPlanID != "" {
		if p, ok := sess.Store.SubscriptionPlans.Get(req.SubscriptionPlanID); ok && p.ClubID == clubID {
			m.MembershipEndDate = now.AddDate(0, 0, p.Duration)
		}
	}

	member, err := s.members.Create(ctx, sess, clubID, m)
	if err != nil {
		return nil, err
	}

	converted := *trial
	converted.ConvertedToMember = true
	if _, err := s.trials.Update(ctx, sess, clubID, trialID, converted); err != nil {
		utils.LogError(err, "ConvertTrial: trial flag not set, removing member")
		sess.Store.Members.Remove(member.ID)
		return nil, err
	}
	utils.LogInfo("Trial converted", map[string]interface{}{"club_id": clubID, "trial_id": trialID, "member_id": member.MemberID})
	return member, nil
}

// VisitLog returns every visitor, trial and member of the club, newest visit first.
func (s *memberService) VisitLog(ctx context.Context, sess *session.Session, clubID string) ([]models.VisitRecord, error) {
	if err := requireClub(ctx, sess, clubID); err != nil {
		return nil, err
	}
	st := sess.Store
	var log []models.VisitRecord
	for _, v := range st.Visitors.QueryByClub(clubID) {
		v := v
		log = append(log, &v)
	}
	for _, t := range st.Trials.QueryByClub(clubID) {
		t := t
		log = append(log, &t)
	}
	for _, m := range st.Members.QueryByClub(clubID) {
		m := m
		log = append(log, &m)
	}
	sort.SliceStable(log, func(i, j int) bool {
		return log[i].Visit().VisitDate.After(log[j].Visit().VisitDate)
	})
	if log == nil {
		log = []models.VisitRecord{}
	}
	return log, nil
}
