package roles

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	r, err := Parse("  Finance ")
	require.NoError(t, err)
	assert.Equal(t, Finance, r)
	assert.Equal(t, "Finance", r.Title())

	_, err = Parse("auditor")
	require.ErrorIs(t, err, ErrUnknownRole)
}

func TestCapabilities(t *testing.T) {
	tests := []struct {
		name string
		got  bool
		want bool
	}{
		{"admin drafts", Admin.CanDraftContract(), true},
		{"vendor drafts", Vendor.CanDraftContract(), false},
		{"client signs draft", Client.CanSignContract("Draft"), true},
		{"vendor signs signed", Vendor.CanSignContract("signed"), false},
		{"admin signs", Admin.CanSignContract("Draft"), false},
		{"vendor uploads pending", Vendor.CanUploadProof("Pending"), true},
		{"vendor uploads completed", Vendor.CanUploadProof("Completed"), false},
		{"technical inspects in progress", Technical.CanInspect("In Progress"), true},
		{"technical inspects pending", Technical.CanInspect("Pending"), false},
		{"client manages tenders", Client.CanManageTenders(), true},
		{"vendor manages tenders", Vendor.CanManageTenders(), false},
		{"finance raises order", Finance.CanRaiseOrder(), true},
		{"vendor raises order", Vendor.CanRaiseOrder(), false},
		{"finance adds item", Finance.CanAddItem(), true},
		{"technical adds item", Technical.CanAddItem(), false},
		{"finance records", Finance.CanRecordPayment(), true},
		{"client records", Client.CanRecordPayment(), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got)
		})
	}
}
