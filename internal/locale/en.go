package locale

import (
	"golang.org/x/text/language"

	"github.com/awmpietro/under5-screening/internal/triage"
)

var english = &Catalog{
	Tag: language.English,
	Phrases: Phrases{
		Title:        "Toto Gemma - Under-5 Screening",
		Disclaimer:   "This tool is for screening and coaching. It does not replace clinical care. If danger signs are present, refer urgently.",
		ShareHeader:  "Toto Gemma screening summary",
		ScreeningID:  "Screening ID",
		Patient:      "Patient",
		Village:      "Village",
		Risk:         "Risk",
		TopCondition: "Most likely",
		Alternatives: "Also consider",
		NextSteps:    "Next steps:",
		Urgent:       "Danger signs present: go to the nearest health facility now.",
	},
	conditions: map[triage.Condition]string{
		triage.Pneumonia:             "Pneumonia",
		triage.Malaria:               "Malaria",
		triage.Malnutrition:          "Malnutrition",
		triage.NeonatalComplications: "Neonatal complications",
	},
	tiers: map[triage.RiskTier]string{
		triage.RiskHigh:   "High",
		triage.RiskMedium: "Medium",
		triage.RiskLow:    "Low",
	},
	triggers: map[triage.Trigger]string{
		triage.TriggerDanger:             "General danger sign present",
		triage.TriggerSevereMalnutrition: "Severe acute malnutrition signs",
		triage.TriggerSevereBreathing:    "Severe breathing problem signs",
		triage.TriggerYoungInfantSevere:  "Young infant severe illness signs",
	},
	actions: map[triage.Action]string{
		triage.ActionReferUrgently:            "Refer urgently to the nearest health facility now.",
		triage.ActionKeepWarmContinueFeeding:  "Keep the child warm and continue breastfeeding/feeding if able.",
		triage.ActionConfirmedMalariaProtocol: "If trained and stocked, follow local malaria protocol for confirmed malaria; otherwise refer.",
		triage.ActionSAMAssessment:            "Ask for urgent nutrition program/clinical assessment (SAM).",
		triage.ActionFollowLocalProtocol:      "Follow local protocol; arrange follow-up if symptoms continue or worsen.",
		triage.ActionSameDayIfWorsening:       "If breathing is fast for age or worsening, go to a facility the same day.",
		triage.ActionMalariaTestIfAvailable:   "If fever continues, get a malaria test if available and follow local treatment guidance.",
		triage.ActionMeasureMUACLinkServices:  "Measure MUAC if not done; link to community nutrition services if available.",
		triage.ActionSeekPromptAssessment:     "Young infants can deteriorate fast; seek facility assessment promptly.",
	},
	tips: map[triage.Tip]string{
		triage.TipKeepChildWarm:          "Keep the child warm.",
		triage.TipFeedingAndFluids:       "Continue breastfeeding/feeding and offer fluids often.",
		triage.TipBreathingUrgentSigns:   "If breathing becomes difficult, chest pulls in, or the child cannot drink—go urgently.",
		triage.TipFeverCareHydration:     "Treat fever with locally recommended fever care and keep the child hydrated.",
		triage.TipMalariaRapidTest:       "If you can, get a malaria rapid test as soon as possible.",
		triage.TipMalariaUrgentSigns:     "If the child becomes very sleepy, has convulsions, or cannot drink—go urgently.",
		triage.TipContinueBreastfeeding:  "Continue breastfeeding if the child is breastfeeding.",
		triage.TipEnergyDenseMeals:       "Give small, frequent, energy-dense meals if the child can eat.",
		triage.TipHandwashingSafeWater:   "Wash hands and use safe water to reduce infections that worsen nutrition.",
		triage.TipSkinToSkinWarmth:       "Keep the baby warm (skin-to-skin if possible).",
		triage.TipBreastfeedFrequently:   "Breastfeed frequently if the baby can feed.",
		triage.TipYoungInfantUrgentSigns: "If feeding is poor, fever/low temperature, or low movement—go urgently.",
	},
}
