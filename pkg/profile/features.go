package profile

import (
	"errors"
	"fmt"
	"math"
)

// Engineer computes the derived features for p.
// Denominators are clamped to at least 1, so the function is total.
func Engineer(p MemberProfile) EngineeredFeatures {
	engagement := p.ActiveMember
	if p.ProductsNumber > 1 {
		engagement++
	}

	var zeroBalance float64
	if p.Balance == 0 {
		zeroBalance = 1
	}

	return EngineeredFeatures{
		BalanceSalaryRatio: p.Balance / math.Max(p.EstimatedSalary, 1),
		TenureAgeRatio:     p.Tenure / math.Max(p.Age, 1),
		EngagementScore:    engagement,
		IsZeroBalance:      zeroBalance,
	}
}

// NewPayload merges p with freshly engineered features.
// Any previously computed features are discarded.
func NewPayload(p MemberProfile) Payload {
	return Payload{
		MemberProfile:      p,
		EngineeredFeatures: Engineer(p),
	}
}

// fields maps the JSON field names accepted by Set to the profile field they write.
var fields = map[string]func(p *MemberProfile) *float64{
	"credit_score":     func(p *MemberProfile) *float64 { return &p.CreditScore },
	"age":              func(p *MemberProfile) *float64 { return &p.Age },
	"tenure":           func(p *MemberProfile) *float64 { return &p.Tenure },
	"balance":          func(p *MemberProfile) *float64 { return &p.Balance },
	"products_number":  func(p *MemberProfile) *float64 { return &p.ProductsNumber },
	"credit_card":      func(p *MemberProfile) *float64 { return &p.CreditCard },
	"active_member":    func(p *MemberProfile) *float64 { return &p.ActiveMember },
	"estimated_salary": func(p *MemberProfile) *float64 { return &p.EstimatedSalary },
	"gender":           func(p *MemberProfile) *float64 { return &p.Gender },
	"country_Germany":  func(p *MemberProfile) *float64 { return &p.CountryGermany },
	"country_Spain":    func(p *MemberProfile) *float64 { return &p.CountrySpain },
	"grp_Adult":        func(p *MemberProfile) *float64 { return &p.GroupAdult },
	"grp_Mid_Age":      func(p *MemberProfile) *float64 { return &p.GroupMidAge },
	"grp_Senior":       func(p *MemberProfile) *float64 { return &p.GroupSenior },
	"cluster":          func(p *MemberProfile) *float64 { return &p.Cluster },
}

// ErrUnknownField is returned by Set for names that are not editable profile fields.
// Engineered features are deliberately absent: they are always recomputed.
var ErrUnknownField = errors.New("unknown profile field")

// Set returns a copy of p with the named field replaced.
func Set(p MemberProfile, name string, value float64) (MemberProfile, error) {
	field, ok := fields[name]
	if !ok {
		return p, fmt.Errorf("%w: %s", ErrUnknownField, name)
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return p, fmt.Errorf("field %s must be a finite number", name)
	}

	*field(&p) = value
	return p, nil
}

// Variables flattens the payload into name -> value pairs keyed by JSON field name.
func (p Payload) Variables() map[string]any {
	vars := make(map[string]any, len(fields)+4)
	for name, field := range fields {
		vars[name] = *field(&p.MemberProfile)
	}
	vars["balance_salary_ratio"] = p.BalanceSalaryRatio
	vars["tenure_age_ratio"] = p.TenureAgeRatio
	vars["engagement_score"] = p.EngagementScore
	vars["is_zero_balance"] = p.IsZeroBalance

	return vars
}
