package store

import "club_admin_backend/internal/models"

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	return append([]string(nil), in...)
}

func cloneClub(c models.Club) models.Club {
	c.AdminIDs = cloneStrings(c.AdminIDs)
	return c
}

func cloneUser(u models.User) models.User {
	u.ClubIDs = cloneStrings(u.ClubIDs)
	u.CreatedByID = clonePtr(u.CreatedByID)
	return u
}

func cloneMember(m models.Member) models.Member {
	m.JoinDate = clonePtr(m.JoinDate)
	return m
}

func clonePayment(p models.Payment) models.Payment {
	p.MemberID = clonePtr(p.MemberID)
	p.TrialID = clonePtr(p.TrialID)
	return p
}

func cloneUsage(u models.InventoryUsage) models.InventoryUsage {
	u.MemberID = clonePtr(u.MemberID)
	return u
}

func clonePlan(p models.SubscriptionPlan) models.SubscriptionPlan {
	p.Features = cloneStrings(p.Features)
	return p
}
