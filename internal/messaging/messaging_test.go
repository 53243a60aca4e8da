package messaging

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/awmpietro/under5-screening/internal/locale"
	"github.com/awmpietro/under5-screening/internal/triage"
)

func screen(t *testing.T, mod func(*triage.AnswerSet)) triage.Result {
	t.Helper()
	a := triage.AnswerSet{AgeGroup: triage.AgeChild, MUAC: triage.MUACGreen, RDT: triage.RDTNotDone}
	mod(&a)
	r, err := triage.Screen(a)
	require.NoError(t, err)
	return r
}

func TestShareText_DangerCase(t *testing.T) {
	r := screen(t, func(a *triage.AnswerSet) {
		a.CannotDrink = true
		a.RDT = triage.RDTPositive
		a.Fever = true
	})

	got := ShareText(r, ShareOptions{PatientRef: "P-17", Village: "Mto wa Mbu", IncludePatient: true, IncludeVillage: true}, locale.English())
	lines := strings.Split(got, "\n")

	want := []string{
		"Toto Gemma screening summary",
		"Patient: P-17",
		"Village: Mto wa Mbu",
		"Risk: High",
		"Most likely: Malaria (100%)",
		"Also consider: Pneumonia 0%, Malnutrition 0%",
		"Next steps:",
		"• Refer urgently to the nearest health facility now.",
		"• Keep the child warm and continue breastfeeding/feeding if able.",
		"Danger signs present: go to the nearest health facility now.",
	}
	assert.Equal(t, want, lines)
	assert.Len(t, r.Actions, 3, "third action exists but is not shared")
}

func TestShareText_OmitsIdentifiersWithoutConsent(t *testing.T) {
	r := screen(t, func(a *triage.AnswerSet) { a.Fever = true; a.RDT = triage.RDTPositive })

	got := ShareText(r, ShareOptions{PatientRef: "P-17", Village: "Kijiji", IncludeVillage: false}, locale.English())
	assert.NotContains(t, got, "P-17")
	assert.NotContains(t, got, "Kijiji")

	got = ShareText(r, ShareOptions{PatientRef: "   ", IncludePatient: true}, locale.English())
	assert.NotContains(t, got, "Patient:")
}

func TestShareText_NoUrgentLineWithoutDangerTrigger(t *testing.T) {
	// Severe breathing is High but not a general danger sign.
	r := screen(t, func(a *triage.AnswerSet) { a.CoughOrDifficultBreathing = true; a.Stridor = true })
	require.Equal(t, triage.RiskHigh, r.Tier)

	got := ShareText(r, ShareOptions{}, locale.English())
	assert.NotContains(t, got, locale.English().Phrases.Urgent)
}

func TestShareText_Swahili(t *testing.T) {
	r := screen(t, func(a *triage.AnswerSet) { a.Oedema = true })
	got := ShareText(r, ShareOptions{}, locale.Negotiate("sw"))
	assert.Contains(t, got, "Hatari: Juu")
	assert.Contains(t, got, "Uwezekano mkubwa: Utapiamlo")
}

func TestShareText_IdentifiersCannotInjectLines(t *testing.T) {
	r := screen(t, func(*triage.AnswerSet) {})
	got := ShareText(r, ShareOptions{PatientRef: "A\nRisk: Low", IncludePatient: true}, nil)
	assert.Contains(t, got, "Patient: A Risk: Low\n")
}

func TestSupervisorText(t *testing.T) {
	r := screen(t, func(*triage.AnswerSet) {})
	got := SupervisorText("3f1c", r, ShareOptions{}, locale.English())
	assert.True(t, strings.HasPrefix(got, "Screening ID: 3f1c\nToto Gemma screening summary\n"), got)
}

func TestWhatsAppLink(t *testing.T) {
	link := WhatsAppLink("Risk: High\n• Refer & go", "+255 (712) 345-678")
	assert.True(t, strings.HasPrefix(link, "https://wa.me/255712345678?text="), link)
	assert.NotContains(t, link, "+")

	u, err := url.Parse(link)
	require.NoError(t, err)
	assert.Equal(t, "Risk: High\n• Refer & go", u.Query().Get("text"))

	assert.True(t, strings.HasPrefix(WhatsAppLink("hi", ""), "https://wa.me/?text=hi"))
}
