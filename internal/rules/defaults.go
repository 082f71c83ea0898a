package rules

// Defaults returns the built-in rule sets, already compiled. Pipelines load
// these unless constructed with default rules disabled.
func Defaults() Set {
	s := Set{
		Targets:     defaultTargets(),
		Context:     defaultContext(),
		Sections:    defaultSections(),
		Postprocess: defaultPostprocess(),
	}
	if err := s.Compile(); err != nil {
		// Built-in rules are fixed at build time; a compile failure is a bug.
		panic("rules: invalid default rule set: " + err.Error())
	}
	return s
}

func defaultTargets() []TargetRule {
	return []TargetRule{
		{Literal: "pneumonia", Category: "PROBLEM", Pattern: `pneumonia|pna`},
		{Literal: "afib", Category: "PROBLEM", Pattern: `a(?:trial\s+)?fib(?:rillation)?`},
		{Literal: "diabetes", Category: "PROBLEM", Pattern: `diabetes(?:\s+mellitus)?|dm2?|t2dm`},
		{Literal: "hypertension", Category: "PROBLEM", Pattern: `hypertension|htn`},
		{Literal: "hyperlipidemia", Category: "PROBLEM", Pattern: `hyperlipidemia|hld`},
		{Literal: "heart failure", Category: "PROBLEM", Pattern: `(?:congestive\s+)?heart\s+failure|chf`},
		{Literal: "coronary artery disease", Category: "PROBLEM", Pattern: `coronary\s+artery\s+disease|cad`},
		{Literal: "stroke", Category: "PROBLEM", Pattern: `stroke|cva|cerebrovascular\s+accident`},
		{Literal: "copd", Category: "PROBLEM", Pattern: `copd|chronic\s+obstructive\s+pulmonary\s+disease`},
		{Literal: "asthma", Category: "PROBLEM"},
		{Literal: "chest pain", Category: "PROBLEM"},
		{Literal: "shortness of breath", Category: "PROBLEM", Pattern: `shortness\s+of\s+breath|sob|dyspnea`},
		{Literal: "fever", Category: "PROBLEM", Pattern: `fevers?|febrile`},
		{Literal: "cough", Category: "PROBLEM"},
		{Literal: "nausea", Category: "PROBLEM"},
		{Literal: "vomiting", Category: "PROBLEM"},
		{Literal: "sepsis", Category: "PROBLEM"},
		{Literal: "pulmonary embolism", Category: "PROBLEM", Pattern: `pulmonary\s+embolism|pe`},
		{Literal: "deep vein thrombosis", Category: "PROBLEM", Pattern: `deep\s+vein\s+thrombosis|dvt`},
		{Literal: "renal failure", Category: "PROBLEM", Pattern: `(?:acute|chronic)?\s*(?:renal|kidney)\s+(?:failure|disease|injury)|ckd|aki`},
		{Literal: "cancer", Category: "PROBLEM", Pattern: `cancer|carcinoma|malignancy`},
		{Literal: "depression", Category: "PROBLEM"},
		{Literal: "anxiety", Category: "PROBLEM"},

		{Literal: "metoprolol", Category: "MEDICATION"},
		{Literal: "lisinopril", Category: "MEDICATION"},
		{Literal: "atorvastatin", Category: "MEDICATION", Pattern: `atorvastatin|lipitor`},
		{Literal: "metformin", Category: "MEDICATION"},
		{Literal: "insulin", Category: "MEDICATION"},
		{Literal: "warfarin", Category: "MEDICATION", Pattern: `warfarin|coumadin`},
		{Literal: "aspirin", Category: "MEDICATION", Pattern: `aspirin|asa`},
		{Literal: "furosemide", Category: "MEDICATION", Pattern: `furosemide|lasix`},
		{Literal: "albuterol", Category: "MEDICATION"},
		{Literal: "prednisone", Category: "MEDICATION"},
		{Literal: "azithromycin", Category: "MEDICATION"},
		{Literal: "ceftriaxone", Category: "MEDICATION"},

		{Literal: "chest x-ray", Category: "TEST", Pattern: `chest\s+x-?ray|cxr`},
		{Literal: "ct scan", Category: "TEST", Pattern: `ct\s+(?:scan|of|angiogram)|cta`},
		{Literal: "echocardiogram", Category: "TEST", Pattern: `echocardiogram|echo|tte`},
		{Literal: "ekg", Category: "TEST", Pattern: `ekg|ecg|electrocardiogram`},
		{Literal: "blood culture", Category: "TEST", Pattern: `blood\s+cultures?`},
	}
}

func defaultContext() []ContextRule {
	return []ContextRule{
		// Negation, forward.
		{Literal: "no evidence of", Category: NegatedExistence, Direction: Forward},
		{Literal: "no signs of", Category: NegatedExistence, Direction: Forward},
		{Literal: "denies", Category: NegatedExistence, Direction: Forward},
		{Literal: "negative for", Category: NegatedExistence, Direction: Forward},
		{Literal: "without", Category: NegatedExistence, Direction: Forward, MaxScope: 6},
		{Literal: "free of", Category: NegatedExistence, Direction: Forward, MaxScope: 6},
		{Literal: "not", Category: NegatedExistence, Direction: Forward, MaxScope: 4},
		{Literal: "no", Category: NegatedExistence, Direction: Forward, MaxScope: 6},
		{Literal: "never had", Category: NegatedExistence, Direction: Forward},
		{Literal: "absence of", Category: NegatedExistence, Direction: Forward},
		// Negation, backward.
		{Literal: "is ruled out", Category: NegatedExistence, Direction: Backward, Pattern: `(?:is|are|was|were|has been|have been)\s+ruled\s+out`},
		{Literal: "not seen", Category: NegatedExistence, Direction: Backward, MaxScope: 6},
		{Literal: "resolved", Category: NegatedExistence, Direction: Backward, MaxScope: 4},
		// Pseudo-negation: shadows "no"/"not" cues.
		{Literal: "no increase", Direction: Pseudo},
		{Literal: "no change", Direction: Pseudo},
		{Literal: "not only", Direction: Pseudo},
		{Literal: "no significant change", Direction: Pseudo},

		// Uncertainty / possibility.
		{Literal: "possible", Category: PossibleExistence, Direction: Forward, MaxScope: 6},
		{Literal: "probable", Category: PossibleExistence, Direction: Forward, MaxScope: 6},
		{Literal: "may have", Category: PossibleExistence, Direction: Forward},
		{Literal: "concern for", Category: PossibleExistence, Direction: Forward},
		{Literal: "suspicious for", Category: PossibleExistence, Direction: Forward},
		{Literal: "rule out", Category: PossibleExistence, Direction: Forward, Pattern: `rule\s+out|r/o|r\.o\.`},
		{Literal: "versus", Category: Uncertain, Direction: Bidirectional, Pattern: `versus|vs\.?`, MaxScope: 4},
		{Literal: "differential includes", Category: Uncertain, Direction: Forward},
		{Literal: "cannot be excluded", Category: PossibleExistence, Direction: Backward},

		// Historical.
		{Literal: "history of", Category: Historical, Direction: Forward, Pattern: `(?:past\s+medical\s+)?history\s+of|h/o|hx\s+of`},
		{Literal: "status post", Category: Historical, Direction: Forward, Pattern: `status\s+post|s/p`},
		{Literal: "in the past", Category: Historical, Direction: Backward},
		{Literal: "years ago", Category: Historical, Direction: Backward, Pattern: `(?:years?|months?|weeks?)\s+ago`},
		{Literal: "previous", Category: Historical, Direction: Forward, MaxScope: 4},
		{Literal: "prior", Category: Historical, Direction: Forward, MaxScope: 4},

		// Hypothetical / conditional.
		{Literal: "if", Category: Hypothetical, Direction: Forward},
		{Literal: "return for", Category: Hypothetical, Direction: Forward},
		{Literal: "should develop", Category: Hypothetical, Direction: Forward, Pattern: `should\s+(?:you\s+)?develop`},
		{Literal: "risk of", Category: Hypothetical, Direction: Forward},
		{Literal: "monitor for", Category: Hypothetical, Direction: Forward},

		// Family.
		{Literal: "family history of", Category: FamilyHistory, Direction: Forward, Pattern: `family\s+history\s+of|fh\s+of|fhx`},
		{Literal: "mother", Category: FamilyHistory, Direction: Bidirectional, MaxScope: 8},
		{Literal: "father", Category: FamilyHistory, Direction: Bidirectional, MaxScope: 8},
		{Literal: "brother", Category: FamilyHistory, Direction: Bidirectional, MaxScope: 8},
		{Literal: "sister", Category: FamilyHistory, Direction: Bidirectional, MaxScope: 8},
		{Literal: "grandmother", Category: FamilyHistory, Direction: Bidirectional, MaxScope: 8},
		{Literal: "grandfather", Category: FamilyHistory, Direction: Bidirectional, MaxScope: 8},

		// Terminations: conjunctions that end a cue's scope.
		{Literal: "but", Direction: Terminate},
		{Literal: "however", Direction: Terminate},
		{Literal: "although", Direction: Terminate},
		{Literal: "except", Direction: Terminate},
		{Literal: "aside from", Direction: Terminate},
		{Literal: "which", Direction: Terminate},
	}
}

func defaultSections() []SectionRule {
	return []SectionRule{
		{Category: "chief_complaint", Pattern: `chief\s+complaint|^cc\b`},
		{Category: "history_of_present_illness", Pattern: `history\s+of\s+present\s+illness|^hpi\b`},
		{Category: "past_medical_history", Pattern: `past\s+medical\s+history|^pmh\b`},
		{Category: "past_surgical_history", Pattern: `past\s+surgical\s+history|^psh\b`},
		{Category: "family_history", Pattern: `family\s+(?:medical\s+)?history|^fh\b`},
		{Category: "social_history", Pattern: `social\s+history|^sh\b`},
		{Category: "medications", Pattern: `(?:current\s+|home\s+|discharge\s+)?medications?`},
		{Category: "allergies", Literal: "allergies"},
		{Category: "review_of_systems", Pattern: `review\s+of\s+systems|^ros\b`},
		{Category: "physical_exam", Pattern: `physical\s+exam(?:ination)?|^pe\b`},
		{Category: "vitals", Pattern: `vital\s+signs|^vitals`},
		{Category: "labs", Pattern: `lab(?:oratory)?(?:\s+(?:results|data|values))?s?`},
		{Category: "imaging", Pattern: `imaging|radiology`},
		{Category: "assessment_plan", Pattern: `assessment(?:\s*(?:and|&|/)\s*plan)?|^a/p\b|^plan\b|impression`},
		{Category: "hospital_course", Pattern: `hospital\s+course`},
		{Category: "discharge_diagnoses", Pattern: `discharge\s+diagnos[ei]s`},
		{Category: "patient_education", Pattern: `patient\s+(?:education|instructions)`},
	}
}

func defaultPostprocess() []PostprocessRule {
	return []PostprocessRule{
		{
			Name:      "family-section-implies-family",
			Condition: Condition{Section: "family_history"},
			Action:    Action{Type: "set_attribute", Attribute: "family", Value: true},
		},
		{
			Name:      "pmh-section-implies-historical",
			Condition: Condition{Section: "past_medical_history"},
			Action:    Action{Type: "set_attribute", Attribute: "historical", Value: true},
		},
		{
			Name:      "education-problems-are-hypothetical",
			Condition: Condition{Category: "PROBLEM", Section: "patient_education"},
			Action:    Action{Type: "set_attribute", Attribute: "hypothetical", Value: true},
		},
		{
			Name:      "drop-family-problems",
			Condition: Condition{Category: "PROBLEM", Attribute: "family"},
			Action:    Action{Type: "remove"},
		},
	}
}
