package scoring

// Default feature schemas, category structures and persona weight
// tables. These are the process-lifetime tables the engine is
// constructed with unless a weight-table file overrides them; they are
// validated at load and never mutated afterwards.

// DefaultConfig assembles the full default scoring configuration.
func DefaultConfig() *Config {
	return &Config{
		Schemas: map[Domain]Schema{
			DomainMSME:     DefaultMSMESchema(),
			DomainConsumer: DefaultConsumerSchema(),
		},
		Categories: map[Domain][]CategorySpec{
			DomainMSME:     DefaultMSMECategories(),
			DomainConsumer: DefaultConsumerCategories(),
		},
		Personas: DefaultPersonas(),
		Anchors:  DefaultAnchors(),
		Thresholds: map[Domain]Thresholds{
			DomainMSME:     DefaultThresholds(),
			DomainConsumer: DefaultThresholds(),
		},
		DefaultAlpha: DefaultAlpha,
	}
}

// DefaultMSMESchema is the v1 MSME feature schema.
func DefaultMSMESchema() Schema {
	return schemaFromSpecs([]FeatureSpec{
		{Key: "business_age_years", MinBound: 0, MaxBound: 10, Direction: HigherIsBetter},
		{Key: "gstin_verified", IsBoolean: true, Direction: HigherIsBetter},
		{Key: "pan_verified", IsBoolean: true, Direction: HigherIsBetter},
		{Key: "udyam_registered", IsBoolean: true, Direction: HigherIsBetter},
		{Key: "promoter_experience_years", MinBound: 0, MaxBound: 20, Direction: HigherIsBetter},
		{Key: "monthly_revenue_avg", MinBound: 0, MaxBound: 2_000_000, Direction: HigherIsBetter},
		{Key: "revenue_growth_rate", MinBound: -0.5, MaxBound: 0.5, Direction: HigherIsBetter},
		{Key: "revenue_concentration_top3", MinBound: 0, MaxBound: 1, Direction: LowerIsBetter},
		{Key: "gst_turnover_reported", MinBound: 0, MaxBound: 20_000_000, Direction: HigherIsBetter},
		{Key: "avg_monthly_balance", MinBound: 0, MaxBound: 500_000, Direction: HigherIsBetter},
		{Key: "cash_inflow_outflow_ratio", MinBound: 0.5, MaxBound: 2.0, Direction: HigherIsBetter},
		{Key: "daily_balance_volatility", MinBound: 0, MaxBound: 1, Direction: LowerIsBetter},
		{Key: "bounced_cheques_count", MinBound: 0, MaxBound: 5, Direction: LowerIsBetter},
		{Key: "previous_defaults_count", MinBound: 0, MaxBound: 3, Direction: LowerIsBetter},
		{Key: "existing_loans_count", MinBound: 0, MaxBound: 10, Direction: LowerIsBetter},
		{Key: "credit_utilization_ratio", MinBound: 0, MaxBound: 1, Direction: LowerIsBetter},
		{Key: "repayment_on_time_ratio", MinBound: 0, MaxBound: 1, Direction: HigherIsBetter},
		{Key: "gst_filing_regularity", MinBound: 0, MaxBound: 1, Direction: HigherIsBetter},
		{Key: "itr_filed_last_year", IsBoolean: true, Direction: HigherIsBetter},
		{Key: "legal_proceedings_flag", IsBoolean: true, Direction: LowerIsBetter},
		{Key: "kyc_mismatch_flag", IsBoolean: true, Direction: LowerIsBetter},
		{Key: "document_tampering_flag", IsBoolean: true, Direction: LowerIsBetter},
		{Key: "device_fraud_score", MinBound: 0, MaxBound: 1, Direction: LowerIsBetter},
		{Key: "bureau_score_external", MinBound: 300, MaxBound: 900, Direction: HigherIsBetter},
		{Key: "industry_risk_index", MinBound: 0, MaxBound: 1, Direction: LowerIsBetter},
		{Key: "location_stability_years", MinBound: 0, MaxBound: 10, Direction: HigherIsBetter},
	})
}

// DefaultConsumerSchema is the v1 consumer feature schema.
func DefaultConsumerSchema() Schema {
	return schemaFromSpecs([]FeatureSpec{
		{Key: "pan_verified", IsBoolean: true, Direction: HigherIsBetter},
		{Key: "aadhaar_verified", IsBoolean: true, Direction: HigherIsBetter},
		{Key: "address_stability_years", MinBound: 0, MaxBound: 10, Direction: HigherIsBetter},
		{Key: "employment_tenure_years", MinBound: 0, MaxBound: 15, Direction: HigherIsBetter},
		{Key: "monthly_income", MinBound: 0, MaxBound: 300_000, Direction: HigherIsBetter},
		{Key: "income_stability_index", MinBound: 0, MaxBound: 1, Direction: HigherIsBetter},
		{Key: "employer_category_score", MinBound: 0, MaxBound: 1, Direction: HigherIsBetter},
		{Key: "avg_monthly_balance", MinBound: 0, MaxBound: 200_000, Direction: HigherIsBetter},
		{Key: "savings_rate", MinBound: 0, MaxBound: 0.5, Direction: HigherIsBetter},
		{Key: "bounced_cheques_count", MinBound: 0, MaxBound: 5, Direction: LowerIsBetter},
		{Key: "overdraft_days_count", MinBound: 0, MaxBound: 30, Direction: LowerIsBetter},
		{Key: "previous_defaults_count", MinBound: 0, MaxBound: 3, Direction: LowerIsBetter},
		{Key: "repayment_on_time_ratio", MinBound: 0, MaxBound: 1, Direction: HigherIsBetter},
		{Key: "credit_utilization_ratio", MinBound: 0, MaxBound: 1, Direction: LowerIsBetter},
		{Key: "existing_emi_to_income", MinBound: 0, MaxBound: 0.8, Direction: LowerIsBetter},
		{Key: "active_loans_count", MinBound: 0, MaxBound: 8, Direction: LowerIsBetter},
		{Key: "legal_proceedings_flag", IsBoolean: true, Direction: LowerIsBetter},
		{Key: "kyc_mismatch_flag", IsBoolean: true, Direction: LowerIsBetter},
		{Key: "device_fraud_score", MinBound: 0, MaxBound: 1, Direction: LowerIsBetter},
		{Key: "bureau_score_external", MinBound: 300, MaxBound: 900, Direction: HigherIsBetter},
		{Key: "bureau_enquiries_6m", MinBound: 0, MaxBound: 10, Direction: LowerIsBetter},
	})
}

func schemaFromSpecs(specs []FeatureSpec) Schema {
	s := make(Schema, len(specs))
	for _, spec := range specs {
		s[spec.Key] = spec
	}
	return s
}

// DefaultMSMECategories defines the seven MSME scoring categories.
func DefaultMSMECategories() []CategorySpec {
	return []CategorySpec{
		{ID: CategoryBusinessIdentity, Groups: []ParameterGroup{
			{Name: "registration", Weight: 0.6, Features: []GroupFeature{
				{Key: "gstin_verified", Weight: 0.4},
				{Key: "pan_verified", Weight: 0.3},
				{Key: "udyam_registered", Weight: 0.3},
			}},
			{Name: "vintage", Weight: 0.4, Features: []GroupFeature{
				{Key: "business_age_years", Weight: 0.7},
				{Key: "promoter_experience_years", Weight: 0.3},
			}},
		}},
		{ID: CategoryRevenue, Groups: []ParameterGroup{
			{Name: "scale", Weight: 0.6, Features: []GroupFeature{
				{Key: "monthly_revenue_avg", Weight: 0.6},
				{Key: "gst_turnover_reported", Weight: 0.4},
			}},
			{Name: "trend", Weight: 0.4, Features: []GroupFeature{
				{Key: "revenue_growth_rate", Weight: 0.6},
				{Key: "revenue_concentration_top3", Weight: 0.4},
			}},
		}},
		{ID: CategoryCashflow, Groups: []ParameterGroup{
			{Name: "liquidity", Weight: 0.6, Features: []GroupFeature{
				{Key: "avg_monthly_balance", Weight: 0.5},
				{Key: "cash_inflow_outflow_ratio", Weight: 0.5},
			}},
			{Name: "discipline", Weight: 0.4, Features: []GroupFeature{
				{Key: "bounced_cheques_count", Weight: 0.6},
				{Key: "daily_balance_volatility", Weight: 0.4},
			}},
		}},
		{ID: CategoryCreditRepayment, Groups: []ParameterGroup{
			{Name: "history", Weight: 0.7, Features: []GroupFeature{
				{Key: "previous_defaults_count", Weight: 0.4},
				{Key: "bounced_cheques_count", Weight: 0.3},
				{Key: "repayment_on_time_ratio", Weight: 0.3},
			}},
			{Name: "exposure", Weight: 0.3, Features: []GroupFeature{
				{Key: "existing_loans_count", Weight: 0.5},
				{Key: "credit_utilization_ratio", Weight: 0.5},
			}},
		}},
		{ID: CategoryCompliance, Groups: []ParameterGroup{
			{Name: "filings", Weight: 0.6, Features: []GroupFeature{
				{Key: "gst_filing_regularity", Weight: 0.6},
				{Key: "itr_filed_last_year", Weight: 0.4},
			}},
			{Name: "legal", Weight: 0.4, Features: []GroupFeature{
				{Key: "legal_proceedings_flag", Weight: 1.0},
			}},
		}},
		{ID: CategoryFraudSignals, Groups: []ParameterGroup{
			{Name: "documents", Weight: 0.6, Features: []GroupFeature{
				{Key: "kyc_mismatch_flag", Weight: 0.5},
				{Key: "document_tampering_flag", Weight: 0.5},
			}},
			{Name: "device", Weight: 0.4, Features: []GroupFeature{
				{Key: "device_fraud_score", Weight: 1.0},
			}},
		}},
		{ID: CategoryExternalSignals, Groups: []ParameterGroup{
			{Name: "bureau", Weight: 0.6, Features: []GroupFeature{
				{Key: "bureau_score_external", Weight: 1.0},
			}},
			{Name: "context", Weight: 0.4, Features: []GroupFeature{
				{Key: "industry_risk_index", Weight: 0.6},
				{Key: "location_stability_years", Weight: 0.4},
			}},
		}},
	}
}

// DefaultConsumerCategories defines the seven consumer scoring
// categories.
func DefaultConsumerCategories() []CategorySpec {
	return []CategorySpec{
		{ID: CategoryIdentity, Groups: []ParameterGroup{
			{Name: "kyc", Weight: 0.6, Features: []GroupFeature{
				{Key: "pan_verified", Weight: 0.5},
				{Key: "aadhaar_verified", Weight: 0.5},
			}},
			{Name: "stability", Weight: 0.4, Features: []GroupFeature{
				{Key: "address_stability_years", Weight: 1.0},
			}},
		}},
		{ID: CategoryIncome, Groups: []ParameterGroup{
			{Name: "earnings", Weight: 0.6, Features: []GroupFeature{
				{Key: "monthly_income", Weight: 0.5},
				{Key: "employment_tenure_years", Weight: 0.3},
				{Key: "employer_category_score", Weight: 0.2},
			}},
			{Name: "stability", Weight: 0.4, Features: []GroupFeature{
				{Key: "income_stability_index", Weight: 1.0},
			}},
		}},
		{ID: CategoryBankingConduct, Groups: []ParameterGroup{
			{Name: "balances", Weight: 0.5, Features: []GroupFeature{
				{Key: "avg_monthly_balance", Weight: 0.6},
				{Key: "savings_rate", Weight: 0.4},
			}},
			{Name: "discipline", Weight: 0.5, Features: []GroupFeature{
				{Key: "bounced_cheques_count", Weight: 0.6},
				{Key: "overdraft_days_count", Weight: 0.4},
			}},
		}},
		{ID: CategoryRepaymentHistory, Groups: []ParameterGroup{
			{Name: "track_record", Weight: 0.7, Features: []GroupFeature{
				{Key: "previous_defaults_count", Weight: 0.4},
				{Key: "repayment_on_time_ratio", Weight: 0.6},
			}},
			{Name: "utilization", Weight: 0.3, Features: []GroupFeature{
				{Key: "credit_utilization_ratio", Weight: 1.0},
			}},
		}},
		{ID: CategoryObligations, Groups: []ParameterGroup{
			{Name: "leverage", Weight: 0.7, Features: []GroupFeature{
				{Key: "existing_emi_to_income", Weight: 0.6},
				{Key: "active_loans_count", Weight: 0.4},
			}},
			{Name: "legal", Weight: 0.3, Features: []GroupFeature{
				{Key: "legal_proceedings_flag", Weight: 1.0},
			}},
		}},
		{ID: CategoryFraudIndicators, Groups: []ParameterGroup{
			{Name: "kyc", Weight: 0.5, Features: []GroupFeature{
				{Key: "kyc_mismatch_flag", Weight: 1.0},
			}},
			{Name: "device", Weight: 0.5, Features: []GroupFeature{
				{Key: "device_fraud_score", Weight: 1.0},
			}},
		}},
		{ID: CategoryExternalFootprint, Groups: []ParameterGroup{
			{Name: "bureau", Weight: 1.0, Features: []GroupFeature{
				{Key: "bureau_score_external", Weight: 0.7},
				{Key: "bureau_enquiries_6m", Weight: 0.3},
			}},
		}},
	}
}

// DefaultPersonas returns the v1 persona/segment weight tables.
func DefaultPersonas() map[string]Persona {
	consumer := func(id string, a, b, c, d, e, f, g float64) Persona {
		return Persona{ID: id, Domain: DomainConsumer, Weights: PersonaWeights{
			CategoryIdentity:          a,
			CategoryIncome:            b,
			CategoryBankingConduct:    c,
			CategoryRepaymentHistory:  d,
			CategoryObligations:       e,
			CategoryFraudIndicators:   f,
			CategoryExternalFootprint: g,
		}}
	}
	msme := func(id string, a, b, c, d, e, f, g float64) Persona {
		return Persona{ID: id, Domain: DomainMSME, Weights: PersonaWeights{
			CategoryBusinessIdentity: a,
			CategoryRevenue:          b,
			CategoryCashflow:         c,
			CategoryCreditRepayment:  d,
			CategoryCompliance:       e,
			CategoryFraudSignals:     f,
			CategoryExternalSignals:  g,
		}}
	}

	personas := []Persona{
		consumer("new_to_credit", 0.20, 0.20, 0.25, 0.05, 0.10, 0.10, 0.10),
		consumer("gig_worker", 0.15, 0.25, 0.25, 0.15, 0.10, 0.05, 0.05),
		consumer("salaried_prime", 0.10, 0.20, 0.15, 0.25, 0.15, 0.05, 0.10),
		consumer("self_employed", 0.10, 0.25, 0.20, 0.20, 0.10, 0.05, 0.10),
		consumer("mass_affluent", 0.10, 0.15, 0.15, 0.30, 0.15, 0.05, 0.10),
		msme("micro_new", 0.15, 0.10, 0.20, 0.25, 0.15, 0.10, 0.05),
		msme("micro_established", 0.10, 0.15, 0.20, 0.25, 0.15, 0.05, 0.10),
		msme("small_trading", 0.10, 0.20, 0.25, 0.20, 0.10, 0.05, 0.10),
		msme("small_manufacturing", 0.10, 0.20, 0.20, 0.20, 0.15, 0.05, 0.10),
		msme("medium_enterprise", 0.05, 0.20, 0.20, 0.25, 0.15, 0.05, 0.10),
	}

	out := make(map[string]Persona, len(personas))
	for _, p := range personas {
		out[p.ID] = p
	}
	return out
}
