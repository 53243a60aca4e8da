package triage

// Action identifies a caregiver next step. Display text lives in the locale
// catalogs.
type Action string

const (
	ActionReferUrgently            Action = "refer_urgently"
	ActionKeepWarmContinueFeeding  Action = "keep_warm_continue_feeding"
	ActionConfirmedMalariaProtocol Action = "confirmed_malaria_protocol"
	ActionSAMAssessment            Action = "sam_assessment"
	ActionFollowLocalProtocol      Action = "follow_local_protocol"
	ActionSameDayIfWorsening       Action = "same_day_if_worsening"
	ActionMalariaTestIfAvailable   Action = "malaria_test_if_available"
	ActionMeasureMUACLinkServices  Action = "measure_muac_link_services"
	ActionSeekPromptAssessment     Action = "seek_prompt_assessment"
)

// Tip identifies a coaching tip.
type Tip string

const (
	TipKeepChildWarm          Tip = "keep_child_warm"
	TipFeedingAndFluids       Tip = "feeding_and_fluids"
	TipBreathingUrgentSigns   Tip = "breathing_urgent_signs"
	TipFeverCareHydration     Tip = "fever_care_hydration"
	TipMalariaRapidTest       Tip = "malaria_rapid_test"
	TipMalariaUrgentSigns     Tip = "malaria_urgent_signs"
	TipContinueBreastfeeding  Tip = "continue_breastfeeding"
	TipEnergyDenseMeals       Tip = "energy_dense_meals"
	TipHandwashingSafeWater   Tip = "handwashing_safe_water"
	TipSkinToSkinWarmth       Tip = "skin_to_skin_warmth"
	TipBreastfeedFrequently   Tip = "breastfeed_frequently"
	TipYoungInfantUrgentSigns Tip = "young_infant_urgent_signs"
)

var conditionAction = [conditionCount]Action{
	Pneumonia:             ActionSameDayIfWorsening,
	Malaria:               ActionMalariaTestIfAvailable,
	Malnutrition:          ActionMeasureMUACLinkServices,
	NeonatalComplications: ActionSeekPromptAssessment,
}

var conditionTips = [conditionCount][3]Tip{
	Pneumonia:             {TipKeepChildWarm, TipFeedingAndFluids, TipBreathingUrgentSigns},
	Malaria:               {TipFeverCareHydration, TipMalariaRapidTest, TipMalariaUrgentSigns},
	Malnutrition:          {TipContinueBreastfeeding, TipEnergyDenseMeals, TipHandwashingSafeWater},
	NeonatalComplications: {TipSkinToSkinWarmth, TipBreastfeedFrequently, TipYoungInfantUrgentSigns},
}

// AllActions and AllTips list every identifier ComposeGuidance can emit.
func AllActions() []Action {
	return []Action{
		ActionReferUrgently, ActionKeepWarmContinueFeeding, ActionConfirmedMalariaProtocol,
		ActionSAMAssessment, ActionFollowLocalProtocol, ActionSameDayIfWorsening,
		ActionMalariaTestIfAvailable, ActionMeasureMUACLinkServices, ActionSeekPromptAssessment,
	}
}

func AllTips() []Tip {
	tips := make([]Tip, 0, conditionCount*3)
	for _, set := range conditionTips {
		tips = append(tips, set[:]...)
	}
	return tips
}

// ComposeGuidance selects actions by tier and tips by top condition alone.
// Order matters: compact share messages keep only the first two actions.
func ComposeGuidance(tier RiskTier, top Condition, rdt RDTResult, muac MUACColor, oedema bool) ([]Action, []Tip) {
	var actions []Action
	if tier == RiskHigh {
		actions = []Action{ActionReferUrgently, ActionKeepWarmContinueFeeding}
		if rdt == RDTPositive {
			actions = append(actions, ActionConfirmedMalariaProtocol)
		}
		if muac == MUACRed || oedema {
			actions = append(actions, ActionSAMAssessment)
		}
	} else {
		actions = []Action{ActionFollowLocalProtocol, conditionAction[top]}
	}

	tips := conditionTips[top]
	return actions, append([]Tip(nil), tips[:]...)
}
