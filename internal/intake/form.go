package intake

import (
	"errors"
	"strings"

	"github.com/awmpietro/under5-screening/internal/triage"
)

// Form field names posted by the screening page.
const (
	FormAgeGroup        = "age_group"
	FormCannotDrink     = "ds_drink"
	FormVomits          = "ds_vomit"
	FormConvulsions     = "ds_convulsions"
	FormLethargy        = "ds_lethargy"
	FormFever           = "fever"
	FormCough           = "cough_breath"
	FormRespiratoryRate = "rr"
	FormChestIndrawing  = "chest_indrawing"
	FormStridor         = "stridor"
	FormMUAC            = "muac"
	FormOedema          = "oedema"
	FormNotFeeding      = "not_feeding"
	FormStimulationOnly = "stim_only"
	FormRDT             = "rdt"
)

// FormValues is satisfied by url.Values.
type FormValues interface {
	Get(key string) string
}

// FromForm maps a posted screening form. Yes/No answers are
// case-insensitive and an unanswered question counts as No. Errors name the
// offending form field.
func FromForm(form FormValues) (triage.AnswerSet, error) {
	var a triage.AnswerSet

	flags := []struct {
		key string
		dst *bool
	}{
		{FormCannotDrink, &a.CannotDrink},
		{FormVomits, &a.VomitsEverything},
		{FormConvulsions, &a.Convulsions},
		{FormLethargy, &a.Lethargic},
		{FormFever, &a.Fever},
		{FormCough, &a.CoughOrDifficultBreathing},
		{FormChestIndrawing, &a.ChestIndrawing},
		{FormStridor, &a.Stridor},
		{FormOedema, &a.Oedema},
		{FormNotFeeding, &a.NotFeedingWell},
		{FormStimulationOnly, &a.StimulationOnlyMovement},
	}
	for _, f := range flags {
		v, err := yesNo(f.key, form.Get(f.key))
		if err != nil {
			return triage.AnswerSet{}, err
		}
		*f.dst = v
	}

	a.RespiratoryRate = triage.ParseRespiratoryRate(form.Get(FormRespiratoryRate))

	if err := parseEnums(&a, form.Get(FormAgeGroup), form.Get(FormMUAC), form.Get(FormRDT)); err != nil {
		return triage.AnswerSet{}, renameField(err)
	}
	return finish(a)
}

func yesNo(key, raw string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "no":
		return false, nil
	case "yes":
		return true, nil
	}
	return false, &triage.ValidationError{Field: key, Value: raw, Reason: "expected Yes or No"}
}

var formFieldFor = map[string]string{
	triage.FieldAgeGroup: FormAgeGroup,
	triage.FieldMUAC:     FormMUAC,
	triage.FieldRDT:      FormRDT,
}

func renameField(err error) error {
	var ve *triage.ValidationError
	if errors.As(err, &ve) {
		if key, ok := formFieldFor[ve.Field]; ok {
			renamed := *ve
			renamed.Field = key
			return &renamed
		}
	}
	return err
}
