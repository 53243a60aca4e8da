package locale

import (
	"golang.org/x/text/language"

	"github.com/awmpietro/under5-screening/internal/triage"
)

var swahili = &Catalog{
	Tag: language.Swahili,
	Phrases: Phrases{
		Title:        "Toto Gemma - Uchunguzi wa Watoto chini ya Miaka 5",
		Disclaimer:   "Chombo hiki ni cha uchunguzi na ushauri. Hakichukui nafasi ya huduma ya kliniki. Kama kuna dalili za hatari, mpeleke mtoto haraka.",
		ShareHeader:  "Muhtasari wa uchunguzi wa Toto Gemma",
		ScreeningID:  "Nambari ya uchunguzi",
		Patient:      "Mgonjwa",
		Village:      "Kijiji",
		Risk:         "Hatari",
		TopCondition: "Uwezekano mkubwa",
		Alternatives: "Fikiria pia",
		NextSteps:    "Hatua zinazofuata:",
		Urgent:       "Kuna dalili za hatari: nenda kituo cha afya kilicho karibu sasa hivi.",
	},
	conditions: map[triage.Condition]string{
		triage.Pneumonia:             "Nimonia",
		triage.Malaria:               "Malaria",
		triage.Malnutrition:          "Utapiamlo",
		triage.NeonatalComplications: "Matatizo ya mtoto mchanga",
	},
	tiers: map[triage.RiskTier]string{
		triage.RiskHigh:   "Juu",
		triage.RiskMedium: "Wastani",
		triage.RiskLow:    "Chini",
	},
	triggers: map[triage.Trigger]string{
		triage.TriggerDanger:             "Dalili ya hatari ya jumla ipo",
		triage.TriggerSevereMalnutrition: "Dalili za utapiamlo mkali",
		triage.TriggerSevereBreathing:    "Dalili za tatizo kubwa la kupumua",
		triage.TriggerYoungInfantSevere:  "Dalili za ugonjwa mkali kwa mtoto mchanga",
	},
	actions: map[triage.Action]string{
		triage.ActionReferUrgently:            "Mpeleke mtoto haraka kwenye kituo cha afya kilicho karibu sasa hivi.",
		triage.ActionKeepWarmContinueFeeding:  "Mweke mtoto katika joto na endelea kunyonyesha/kulisha kama anaweza.",
		triage.ActionConfirmedMalariaProtocol: "Kama umefunzwa na una dawa, fuata mwongozo wa eneo lako kwa malaria iliyothibitishwa; vinginevyo mpeleke kituoni.",
		triage.ActionSAMAssessment:            "Omba tathmini ya haraka ya mpango wa lishe/kliniki (utapiamlo mkali).",
		triage.ActionFollowLocalProtocol:      "Fuata mwongozo wa eneo lako; panga ufuatiliaji kama dalili zinaendelea au kuzidi.",
		triage.ActionSameDayIfWorsening:       "Kama kupumua ni haraka kwa umri wake au kunazidi, nenda kituo cha afya siku hiyo hiyo.",
		triage.ActionMalariaTestIfAvailable:   "Kama homa inaendelea, pima malaria kama kipimo kinapatikana na fuata mwongozo wa matibabu wa eneo lako.",
		triage.ActionMeasureMUACLinkServices:  "Pima MUAC kama bado; unganisha na huduma za lishe za jamii kama zinapatikana.",
		triage.ActionSeekPromptAssessment:     "Watoto wachanga wanaweza kuzidiwa haraka; tafuta uchunguzi kituoni mapema.",
	},
	tips: map[triage.Tip]string{
		triage.TipKeepChildWarm:          "Mweke mtoto katika joto.",
		triage.TipFeedingAndFluids:       "Endelea kunyonyesha/kulisha na mpe vinywaji mara kwa mara.",
		triage.TipBreathingUrgentSigns:   "Kama kupumua kunakuwa kugumu, kifua kinavutwa ndani, au mtoto hawezi kunywa, nenda haraka.",
		triage.TipFeverCareHydration:     "Tibu homa kwa njia zinazopendekezwa eneo lako na mpe mtoto maji ya kutosha.",
		triage.TipMalariaRapidTest:       "Kama unaweza, pima malaria kwa kipimo cha haraka mapema iwezekanavyo.",
		triage.TipMalariaUrgentSigns:     "Kama mtoto anasinzia sana, ana degedege, au hawezi kunywa, nenda haraka.",
		triage.TipContinueBreastfeeding:  "Endelea kunyonyesha kama mtoto ananyonya.",
		triage.TipEnergyDenseMeals:       "Mpe milo midogo ya mara kwa mara yenye nguvu nyingi kama anaweza kula.",
		triage.TipHandwashingSafeWater:   "Nawa mikono na tumia maji safi ili kupunguza maambukizi yanayozidisha utapiamlo.",
		triage.TipSkinToSkinWarmth:       "Mweke mtoto mchanga katika joto (ngozi kwa ngozi kama inawezekana).",
		triage.TipBreastfeedFrequently:   "Nyonyesha mara kwa mara kama mtoto anaweza kunyonya.",
		triage.TipYoungInfantUrgentSigns: "Kama ananyonya vibaya, ana homa/joto la chini, au hasogei sana, nenda haraka.",
	},
}
