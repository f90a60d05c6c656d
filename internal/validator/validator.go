// Package validator runs the ordered pre-Resolver checks against a parsed
// intent: confidence gate, required-filter presence, and master-data
// membership for the item/warehouse/workstation dimensions. It never talks
// to a database — every check is either pure or backed by the already
// in-memory masterdata.Store.
package validator

import (
	"fmt"

	"github.com/DanielChung520/AI-Box-sub009/internal/apperror"
	"github.com/DanielChung520/AI-Box-sub009/internal/catalog"
	"github.com/DanielChung520/AI-Box-sub009/internal/masterdata"
	"github.com/DanielChung520/AI-Box-sub009/internal/parser"
)

// SuggestionLimit bounds both intent-name and master-data fuzzy suggestion
// lists surfaced on a validation failure.
const SuggestionLimit = 5

// These name the Concepts whose values are checked against the
// masterdata.Store rather than merely required to be present.
const (
	ConceptItemNo      = "ITEM_NO"
	ConceptWarehouse   = "WAREHOUSE"
	ConceptWorkstation = "WORKSTATION"
)

type masterDataConcept struct {
	concept string
	code    apperror.Code
}

// masterDataConcepts is an ordered list, not a map, so that a params set
// carrying two invalid master-data values always reports the same one
// first rather than depending on map iteration order.
var masterDataConcepts = []masterDataConcept{
	{ConceptItemNo, apperror.ItemNotFound},
	{ConceptWarehouse, apperror.WarehouseNotFound},
	{ConceptWorkstation, apperror.WorkstationNotFound},
}

// Validator runs the three ordered checks named for the pre-Resolver stage.
type Validator struct {
	Catalog       *catalog.Store
	MasterData    *masterdata.Store
	GateThreshold float64
}

// New builds a Validator with the default 0.3 confidence gate.
func New(cat *catalog.Store, md *masterdata.Store) *Validator {
	return &Validator{Catalog: cat, MasterData: md, GateThreshold: parser.GateThreshold}
}

// Validate runs all three checks in order, returning the first failure.
// A nil return means pi is safe to hand to the Resolver.
func (v *Validator) Validate(pi parser.ParsedIntent) *apperror.Error {
	if err := v.checkConfidence(pi); err != nil {
		return err
	}
	if _, err := v.checkRequiredFilters(pi); err != nil {
		return err
	}
	if err := v.checkMasterData(pi); err != nil {
		return err
	}
	return nil
}

func (v *Validator) checkConfidence(pi parser.ParsedIntent) *apperror.Error {
	threshold := v.GateThreshold
	if threshold == 0 {
		threshold = parser.GateThreshold
	}
	if pi.Intent == parser.UnknownIntent || pi.Confidence < threshold {
		suggestions := v.intentSuggestions(pi.Intent)
		return apperror.New(apperror.IntentUnclear,
			fmt.Sprintf("could not resolve a confident intent (confidence %.2f)", pi.Confidence)).
			WithSuggestions(suggestions...)
	}
	return nil
}

func (v *Validator) intentSuggestions(rawIntent string) []string {
	if v.Catalog == nil {
		return nil
	}
	names := v.Catalog.Current().IntentNames()
	if rawIntent == "" || rawIntent == parser.UnknownIntent {
		if len(names) > SuggestionLimit {
			return names[:SuggestionLimit]
		}
		return names
	}
	return masterdata.Suggest(names, rawIntent, SuggestionLimit)
}

func (v *Validator) checkRequiredFilters(pi parser.ParsedIntent) (catalog.Intent, *apperror.Error) {
	intent, ok := v.Catalog.Current().GetIntent(pi.Intent)
	if !ok {
		return catalog.Intent{}, apperror.New(apperror.IntentUnclear,
			fmt.Sprintf("intent %q is not registered in the catalog", pi.Intent))
	}
	for _, required := range intent.RequiredFilters {
		if _, bound := pi.Params[required]; !bound {
			return catalog.Intent{}, apperror.New(apperror.MissingRequiredFilter,
				fmt.Sprintf("intent %q requires filter %q", pi.Intent, required))
		}
	}
	return intent, nil
}

func (v *Validator) checkMasterData(pi parser.ParsedIntent) *apperror.Error {
	if v.MasterData == nil {
		return nil
	}
	for _, mdc := range masterDataConcepts {
		val, bound := pi.Params[mdc.concept]
		if !bound {
			continue
		}
		if v.memberOK(mdc.concept, val.Scalar) {
			continue
		}
		return apperror.New(mdc.code, fmt.Sprintf("%s %q not found in master data", mdc.concept, val.Scalar)).
			WithSuggestions(v.suggestFor(mdc.concept, val.Scalar)...)
	}
	return nil
}

func (v *Validator) memberOK(concept, value string) bool {
	switch concept {
	case ConceptItemNo:
		return v.MasterData.HasItem(value)
	case ConceptWarehouse:
		return v.MasterData.HasWarehouse(value)
	case ConceptWorkstation:
		return v.MasterData.HasWorkstation(value)
	default:
		return true
	}
}

func (v *Validator) suggestFor(concept, value string) []string {
	switch concept {
	case ConceptItemNo:
		return v.MasterData.SuggestItem(value, SuggestionLimit)
	case ConceptWarehouse:
		return v.MasterData.SuggestWarehouse(value, SuggestionLimit)
	case ConceptWorkstation:
		return v.MasterData.SuggestWorkstation(value, SuggestionLimit)
	default:
		return nil
	}
}
