package enums

import "fmt"

// InquiryType distinguishes general questions from quote requests.
type InquiryType string

const (
	InquiryTypeGeneral InquiryType = "general"
	InquiryTypeQuote   InquiryType = "quote"
)

var validInquiryTypes = []InquiryType{
	InquiryTypeGeneral,
	InquiryTypeQuote,
}

// String implements fmt.Stringer.
func (t InquiryType) String() string {
	return string(t)
}

// IsValid reports whether the value is a known InquiryType.
func (t InquiryType) IsValid() bool {
	for _, candidate := range validInquiryTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseInquiryType converts raw input into an InquiryType.
func ParseInquiryType(value string) (InquiryType, error) {
	for _, candidate := range validInquiryTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid inquiry type %q", value)
}

// InquiryStatus tracks the admin workflow state of an inquiry.
type InquiryStatus string

const (
	InquiryStatusNew       InquiryStatus = "new"
	InquiryStatusContacted InquiryStatus = "contacted"
	InquiryStatusClosed    InquiryStatus = "closed"
)

var validInquiryStatuses = []InquiryStatus{
	InquiryStatusNew,
	InquiryStatusContacted,
	InquiryStatusClosed,
}

// InquiryStatuses returns every workflow state in pipeline order.
func InquiryStatuses() []InquiryStatus {
	return append([]InquiryStatus(nil), validInquiryStatuses...)
}

// String implements fmt.Stringer.
func (s InquiryStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known InquiryStatus.
func (s InquiryStatus) IsValid() bool {
	for _, candidate := range validInquiryStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseInquiryStatus converts raw input into an InquiryStatus.
func ParseInquiryStatus(value string) (InquiryStatus, error) {
	for _, candidate := range validInquiryStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid inquiry status %q", value)
}
