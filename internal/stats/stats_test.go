package stats

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmreyes-dev/partstream-backend/pkg/enums"
	pkgerrors "github.com/dmreyes-dev/partstream-backend/pkg/errors"
)

type fakeCounter struct {
	products   int64
	featured   int64
	outOfStock int64
	categories int64
	byStatus   map[enums.InquiryStatus]int64
	err        error
}

func (f *fakeCounter) CountActiveProducts(context.Context) (int64, error) {
	return f.products, f.err
}

func (f *fakeCounter) CountFeaturedProducts(context.Context) (int64, error) {
	return f.featured, f.err
}

func (f *fakeCounter) CountOutOfStockProducts(context.Context) (int64, error) {
	return f.outOfStock, f.err
}

func (f *fakeCounter) CountActiveCategories(context.Context) (int64, error) {
	return f.categories, f.err
}

func (f *fakeCounter) CountInquiriesByStatus(context.Context) (map[enums.InquiryStatus]int64, error) {
	return f.byStatus, f.err
}

func TestOverviewAssemblesCounters(t *testing.T) {
	repo := &fakeCounter{
		products:   42,
		featured:   5,
		outOfStock: 3,
		categories: 8,
		byStatus: map[enums.InquiryStatus]int64{
			enums.InquiryStatusNew:    7,
			enums.InquiryStatusClosed: 2,
		},
	}
	svc, err := NewService(repo)
	require.NoError(t, err)

	overview, err := svc.Overview(context.Background())
	require.NoError(t, err)

	assert.EqualValues(t, 42, overview.Products.Total)
	assert.EqualValues(t, 5, overview.Products.Featured)
	assert.EqualValues(t, 3, overview.Products.OutOfStock)
	assert.EqualValues(t, 8, overview.Categories)
	assert.EqualValues(t, 9, overview.Inquiries.Total)

	assert.EqualValues(t, 7, overview.ByStatus["new"])
	assert.EqualValues(t, 0, overview.ByStatus["contacted"], "empty statuses still appear")
	assert.EqualValues(t, 2, overview.ByStatus["closed"])
}

func TestOverviewPropagatesQueryFailure(t *testing.T) {
	svc, err := NewService(&fakeCounter{err: errors.New("connection reset")})
	require.NoError(t, err)

	_, err = svc.Overview(context.Background())
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeDependency, appErr.Code())
}
