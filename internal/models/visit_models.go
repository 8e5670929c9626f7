package models

import "time"

// VisitType tags the variant of a visit record.
type VisitType string

const (
	VisitTypeVisitor VisitType = "VISITOR"
	VisitTypeTrial   VisitType = "TRIAL"
	VisitTypeMember  VisitType = "MEMBER"
)

// MemberStatus is the lifecycle status of a member.
type MemberStatus string

const (
	MemberStatusVisitor  MemberStatus = "VISITOR"
	MemberStatusTrial    MemberStatus = "TRIAL"
	MemberStatusActive   MemberStatus = "ACTIVE"
	MemberStatusInactive MemberStatus = "INACTIVE"
)

// VisitInfo holds the fields common to visitors, trials and members.
type VisitInfo struct {
	Name           string    `json:"name" db:"name" validate:"required"`
	Mobile         string    `json:"mobile" db:"mobile"`
	Address        string    `json:"address" db:"address"`
	ReferralSource string    `json:"referralSource" db:"referral_source"`
	VisitDate      time.Time `json:"visitDate" db:"visit_date"`
	Type           VisitType `json:"type" db:"type"`
	ClubID         string    `json:"clubId" db:"club_id" validate:"required"`
}

// VisitRecord is implemented only by Visitor, Trial and Member.
// Consumers switch on the concrete type.
type VisitRecord interface {
	Meta() *Base
	Visit() VisitInfo
	visitRecord()
}

// Visitor is a walk-in who has not started a trial.
type Visitor struct {
	Base
	VisitInfo
}

// Trial is a prospect on a paid trial period.
type Trial struct {
	Base
	VisitInfo
	Fee               float64   `json:"fee" db:"fee" validate:"gte=0"`
	TrialStartDate    time.Time `json:"trialStartDate" db:"trial_start_date"`
	TrialEndDate      time.Time `json:"trialEndDate" db:"trial_end_date"`
	ConvertedToMember bool      `json:"convertedToMember" db:"converted_to_member"`
}

// Member is a subscribed customer of a club.
type Member struct {
	Base
	VisitInfo
	MemberID            string       `json:"memberId" db:"member_id"`
	MembershipStartDate time.Time    `json:"membershipStartDate" db:"membership_start_date"`
	MembershipEndDate   time.Time    `json:"membershipEndDate" db:"membership_end_date"`
	SubscriptionPlanID  string       `json:"subscriptionPlanId" db:"subscription_plan_id"`
	IsActive            bool         `json:"isActive" db:"is_active"`
	Phone               string       `json:"phone" db:"phone"`
	Email               string       `json:"email" db:"email" validate:"omitempty,email"`
	Status              MemberStatus `json:"status" db:"status" validate:"omitempty,oneof=VISITOR TRIAL ACTIVE INACTIVE"`
	JoinDate            *time.Time   `json:"joinDate,omitempty" db:"join_date"`
}

func (v Visitor) Visit() VisitInfo { return v.VisitInfo }
func (t Trial) Visit() VisitInfo   { return t.VisitInfo }
func (m Member) Visit() VisitInfo  { return m.VisitInfo }

func (*Visitor) visitRecord() {}
func (*Trial) visitRecord()   {}
func (*Member) visitRecord()  {}
