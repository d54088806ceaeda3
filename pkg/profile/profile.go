package profile

// MemberProfile is the hypothetical member edited in the risk simulator.
// All fields are numeric so the profile can be posted to the scoring backend as-is.
// Ranges shown by the form (age 18-92, credit score 300-850, ...) are advisory only.
type MemberProfile struct {
	CreditScore     float64 `json:"credit_score"`
	Age             float64 `json:"age"`
	Tenure          float64 `json:"tenure"`
	Balance         float64 `json:"balance"`
	ProductsNumber  float64 `json:"products_number"`
	CreditCard      float64 `json:"credit_card"`   // 0/1
	ActiveMember    float64 `json:"active_member"` // 0/1
	EstimatedSalary float64 `json:"estimated_salary"`
	Gender          float64 `json:"gender"` // 0 female, 1 male
	CountryGermany  float64 `json:"country_Germany"`
	CountrySpain    float64 `json:"country_Spain"`
	GroupAdult      float64 `json:"grp_Adult"`
	GroupMidAge     float64 `json:"grp_Mid_Age"`
	GroupSenior     float64 `json:"grp_Senior"`
	Cluster         float64 `json:"cluster"`
}

// EngineeredFeatures are derived from a MemberProfile and are never edited directly.
type EngineeredFeatures struct {
	BalanceSalaryRatio float64 `json:"balance_salary_ratio"`
	TenureAgeRatio     float64 `json:"tenure_age_ratio"`
	EngagementScore    float64 `json:"engagement_score"`
	IsZeroBalance      float64 `json:"is_zero_balance"`
}

// Payload is the flat feature vector posted to the predict endpoint.
// Embedding keeps the JSON object flat.
type Payload struct {
	MemberProfile
	EngineeredFeatures
}

// DefaultProfile returns the profile the simulator form starts with.
func DefaultProfile() MemberProfile {
	return MemberProfile{
		CreditScore:     650,
		Age:             35,
		Tenure:          5,
		Balance:         85000,
		ProductsNumber:  1,
		CreditCard:      1,
		ActiveMember:    1,
		EstimatedSalary: 75000,
		Gender:          1,
		CountryGermany:  1,
		CountrySpain:    0,
		GroupAdult:      1,
		GroupMidAge:     0,
		GroupSenior:     0,
		Cluster:         1,
	}
}
