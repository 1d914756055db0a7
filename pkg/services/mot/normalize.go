// Package mot normalizes the several MOT history shapes found in provider
// payloads into one sorted list of tests.
package mot

import (
	"math"
	"sort"
	"strings"

	"github.com/spf13/cast"

	"github.com/de-tools/vehicle-atlas/pkg/models/domain"
	"github.com/de-tools/vehicle-atlas/pkg/services/format"
)

// listCandidates are the paths under which a test list has been seen, tried in
// order. The container itself being a list is checked before any of them.
var listCandidates = []string{
	"MotTestDetailsList",
	"MotHistory",
	"MotTests",
	"Tests",
	"MotHistory.Tests",
	"MotTestDetailsList.Tests",
}

var (
	dateKeys       = []string{"TestDate", "CompletedDate", "DateOfTest"}
	mileageKeys    = []string{"OdometerReading", "Mileage", "OdometerValue"}
	mileageUnits   = []string{"OdometerUnit", "MileageUnit", "OdometerReadingUnit"}
	testNumberKeys = []string{"TestNumber", "MotTestNumber"}
	locationKeys   = []string{"TestStationName", "TestStation", "Location", "TestStationTown"}
	resultKeys     = []string{"TestResult", "Result", "Outcome"}
	passFlagKeys   = []string{"TestPassed", "IsPassed", "Passed"}
	retestKeys     = []string{"IsRetest", "Retest"}
	expiryKeys     = []string{"ExpiryDate", "TestExpiryDate"}

	annotationLists = []string{"AnnotationList", "DefectList", "RfrAndComments", "Defects", "Annotations", "ReasonForRejectionList"}
	annotationTypes = []string{"Type", "Severity", "Category", "AnnotationType", "DefectType"}
	annotationTexts = []string{"Text", "Description", "Comment", "Notes", "AnnotationText"}
	failureMarkers  = []string{"FAIL", "PRS", "DANGEROUS"}
)

// Normalize reads the MOT tests held by container and returns them newest
// first. Unknown shapes yield an empty list.
func Normalize(container any) []domain.MotTest {
	raw := testList(container)
	tests := make([]domain.MotTest, 0, len(raw))
	for _, item := range raw {
		if rec, ok := item.(*domain.Object); ok && rec.Len() > 0 {
			tests = append(tests, normalizeTest(len(tests), rec))
		}
	}

	sort.SliceStable(tests, func(i, j int) bool {
		return tests[i].SortKey().After(tests[j].SortKey())
	})
	return tests
}

func testList(container any) []any {
	if list, ok := container.([]any); ok && len(list) > 0 {
		return flatten(list)
	}
	obj, ok := container.(*domain.Object)
	if !ok {
		return nil
	}
	for _, path := range listCandidates {
		if list := domain.Get(obj, path).List(); len(list) > 0 {
			return flatten(list)
		}
	}
	return nil
}

// flatten unwraps one level of nested lists.
func flatten(list []any) []any {
	out := make([]any, 0, len(list))
	for _, item := range list {
		if inner, ok := item.([]any); ok {
			out = append(out, inner...)
			continue
		}
		out = append(out, item)
	}
	return out
}

func normalizeTest(index int, rec *domain.Object) domain.MotTest {
	t := domain.MotTest{
		Index:       index,
		TestNumber:  domain.First(rec, testNumberKeys...).String(),
		Location:    domain.First(rec, locationKeys...).String(),
		Result:      domain.First(rec, resultKeys...).String(),
		MileageUnit: mileageUnit(domain.First(rec, mileageUnits...).String()),
	}

	t.Date, t.HasDate = format.ParseDate(domain.First(rec, dateKeys...).String())
	t.ExpiryDate, t.HasExpiry = format.ParseDate(domain.First(rec, expiryKeys...).String())

	if n, ok := format.ParseNumber(domain.First(rec, mileageKeys...).Raw()); ok && n >= 0 {
		t.Mileage = int(math.Round(n))
		t.HasMileage = true
	}

	if passed, ok := flag(rec, passFlagKeys); ok {
		t.Passed = passed
	} else {
		t.Passed = strings.Contains(strings.ToLower(t.Result), "pass")
	}
	t.IsRetest, _ = flag(rec, retestKeys)

	t.Advisories, t.Failures = annotations(rec)
	return t
}

// flag reads the first candidate that holds a boolean, accepting "true" and
// "false" strings too.
func flag(rec *domain.Object, keys []string) (bool, bool) {
	for _, k := range keys {
		v := domain.Get(rec, k)
		if !v.Present() {
			continue
		}
		if b, err := cast.ToBoolE(v.Raw()); err == nil {
			return b, true
		}
	}
	return false, false
}

func mileageUnit(s string) string {
	switch strings.ToLower(s) {
	case "km", "kms", "kilometres", "kilometers":
		return "km"
	}
	return "mi"
}

// annotations pools every annotation list on the record and splits the
// entries into advisories and failures.
func annotations(rec *domain.Object) (advisories, failures []domain.Annotation) {
	for _, key := range annotationLists {
		for _, item := range domain.Get(rec, key).List() {
			a, ok := annotation(item)
			if !ok {
				continue
			}
			if a.Kind == domain.AnnotationFailure {
				failures = append(failures, a)
			} else {
				advisories = append(advisories, a)
			}
		}
	}
	return advisories, failures
}

func annotation(item any) (domain.Annotation, bool) {
	if s, ok := item.(string); ok {
		s = strings.TrimSpace(s)
		return domain.Annotation{Kind: domain.AnnotationAdvisory, Text: s}, s != ""
	}
	obj, ok := item.(*domain.Object)
	if !ok {
		return domain.Annotation{}, false
	}

	a := domain.Annotation{
		Type: domain.First(obj, annotationTypes...).String(),
		Text: domain.First(obj, annotationTexts...).String(),
		Kind: domain.AnnotationAdvisory,
	}
	if isFailure(obj) {
		a.Kind = domain.AnnotationFailure
		return a, true
	}
	return a, a.Text != ""
}

func isFailure(obj *domain.Object) bool {
	if dangerous, ok := domain.Get(obj, "IsDangerous").Bool(); ok && dangerous {
		return true
	}
	for _, key := range annotationTypes {
		kind := strings.ToUpper(domain.Get(obj, key).String())
		for _, marker := range failureMarkers {
			if strings.Contains(kind, marker) {
				return true
			}
		}
	}
	return false
}
