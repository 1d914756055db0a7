package domain

import "time"

// AnnotationKind separates test-failing defects from advisories.
type AnnotationKind string

const (
	AnnotationAdvisory AnnotationKind = "advisory"
	AnnotationFailure  AnnotationKind = "failure"
)

type Annotation struct {
	Kind AnnotationKind
	Type string
	Text string
}

// MotTest is one normalized MOT test record. It is not modified after normalization.
type MotTest struct {
	Index       int
	Date        time.Time
	HasDate     bool
	Mileage     int
	HasMileage  bool
	MileageUnit string
	TestNumber  string
	Location    string
	Result      string
	Passed      bool
	IsRetest    bool
	ExpiryDate  time.Time
	HasExpiry   bool
	Advisories  []Annotation
	Failures    []Annotation
}

// SortKey is the test date, or the zero Unix time when the date is unknown.
func (t MotTest) SortKey() time.Time {
	if !t.HasDate {
		return time.Unix(0, 0).UTC()
	}
	return t.Date
}
