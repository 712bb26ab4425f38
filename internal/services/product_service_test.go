package services

import (
	"context"
	"errors"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nafcode/product-registry/internal/models"
	"github.com/nafcode/product-registry/internal/store"
)

// memoryStore keeps records in insertion order, mirroring the first-match
// lookup of the real store.
type memoryStore struct {
	mtx      sync.Mutex
	products []*models.Product
	saveErr  error
	findErr  error
}

func (m *memoryStore) Save(_ context.Context, product *models.Product) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.mtx.Lock()
	defer m.mtx.Unlock()
	copied := *product
	m.products = append(m.products, &copied)
	return nil
}

func (m *memoryStore) FindByProductID(_ context.Context, productID string) (*models.Product, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	m.mtx.Lock()
	defer m.mtx.Unlock()
	for _, p := range m.products {
		if p.ProductID == productID {
			return p, nil
		}
	}
	return nil, store.ErrProductNotFound
}

func (m *memoryStore) count() int {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	return len(m.products)
}

func newTestService(t *testing.T, st store.ProductStore) (*ProductService, string) {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "qr_codes")
	images := NewLocalImageStore(dir, "/qr_codes")
	svc := NewProductService(st, NewQRCodeEncoder(), images, "http://localhost:8080")
	return svc, dir
}

func TestRegisterThenVerify(t *testing.T) {
	st := &memoryStore{}
	svc, dir := newTestService(t, st)

	result, err := svc.Register(context.Background(), &RegisterProductRequest{
		Name:      "Acme Widget",
		Company:   "Acme Co",
		ProductID: "SKU-001",
	})
	require.NoError(t, err)
	assert.Equal(t, "Product registered", result.Message)
	assert.Equal(t, "/qr_codes/SKU-001.png", result.ImageURL)

	// The image must exist on disk before the record does.
	_, statErr := os.Stat(filepath.Join(dir, "SKU-001.png"))
	assert.NoError(t, statErr)

	product, err := svc.Verify(context.Background(), "SKU-001")
	require.NoError(t, err)
	assert.Equal(t, "Acme Widget", product.Name)
	assert.Equal(t, "Acme Co", product.Company)
	assert.True(t, product.Registered)
}

func TestRegisterMissingFields(t *testing.T) {
	cases := []RegisterProductRequest{
		{Company: "Acme Co", ProductID: "SKU-002"},
		{Name: "Acme Widget", ProductID: "SKU-002"},
		{Name: "Acme Widget", Company: "Acme Co"},
		{},
	}

	for _, req := range cases {
		st := &memoryStore{}
		svc, dir := newTestService(t, st)

		_, err := svc.Register(context.Background(), &req)
		assert.ErrorIs(t, err, ErrValidation)

		// No partial registration: no record, no image directory.
		assert.Equal(t, 0, st.count())
		_, statErr := os.Stat(dir)
		assert.True(t, os.IsNotExist(statErr))

		_, err = svc.Verify(context.Background(), "SKU-002")
		assert.ErrorIs(t, err, store.ErrProductNotFound)
	}
}

func TestVerifyDecodesEncodedIdentifier(t *testing.T) {
	st := &memoryStore{}
	svc, _ := newTestService(t, st)

	// Identifier with reserved URL characters, seeded directly; the stored
	// value is the raw string.
	raw := "AB/12 #7"
	require.NoError(t, st.Save(context.Background(), &models.Product{
		Name:       "Widget",
		Company:    "Acme Co",
		ProductID:  raw,
		Registered: true,
	}))

	encoded := url.PathEscape(raw)
	decoded, err := url.PathUnescape(encoded)
	require.NoError(t, err)
	assert.Equal(t, raw, decoded)

	product, err := svc.Verify(context.Background(), encoded)
	require.NoError(t, err)
	assert.Equal(t, raw, product.ProductID)
}

func TestVerifyUnencodedIdentifierIsNoOp(t *testing.T) {
	st := &memoryStore{}
	svc, _ := newTestService(t, st)

	require.NoError(t, st.Save(context.Background(), &models.Product{
		ProductID: "plain-id", Registered: true,
	}))

	product, err := svc.Verify(context.Background(), "plain-id")
	require.NoError(t, err)
	assert.Equal(t, "plain-id", product.ProductID)
}

func TestVerifyUnescapableIdentifierFallsBackToRaw(t *testing.T) {
	st := &memoryStore{}
	svc, _ := newTestService(t, st)

	// "100%" cannot be percent-decoded; the lookup must use it verbatim
	// instead of failing.
	require.NoError(t, st.Save(context.Background(), &models.Product{
		ProductID: "100%", Registered: true,
	}))

	product, err := svc.Verify(context.Background(), "100%")
	require.NoError(t, err)
	assert.Equal(t, "100%", product.ProductID)
}

func TestVerifyUnregisteredProduct(t *testing.T) {
	st := &memoryStore{}
	svc, _ := newTestService(t, st)

	_, err := svc.Verify(context.Background(), "never-registered")
	assert.ErrorIs(t, err, store.ErrProductNotFound)
}

func TestDuplicateRegistrationsAreAccepted(t *testing.T) {
	st := &memoryStore{}
	svc, _ := newTestService(t, st)

	first := &RegisterProductRequest{Name: "Widget v1", Company: "Acme Co", ProductID: "SKU-DUP"}
	second := &RegisterProductRequest{Name: "Widget v2", Company: "Acme Co", ProductID: "SKU-DUP"}

	_, err := svc.Register(context.Background(), first)
	require.NoError(t, err)
	_, err = svc.Register(context.Background(), second)
	require.NoError(t, err)

	assert.Equal(t, 2, st.count())

	// With duplicate rows the lookup returns some matching record; which
	// one is unspecified, so assert membership rather than a winner.
	product, err := svc.Verify(context.Background(), "SKU-DUP")
	require.NoError(t, err)
	assert.Equal(t, "SKU-DUP", product.ProductID)
	assert.Contains(t, []string{"Widget v1", "Widget v2"}, product.Name)
}

func TestConcurrentFirstRegistrations(t *testing.T) {
	st := &memoryStore{}
	svc, dir := newTestService(t, st)

	// Both registrations race on creating the image directory.
	ids := []string{"SKU-A", "SKU-B"}
	errs := make(chan error, len(ids))

	var wg sync.WaitGroup
	for _, id := range ids {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			_, err := svc.Register(context.Background(), &RegisterProductRequest{
				Name:      "Widget " + id,
				Company:   "Acme Co",
				ProductID: id,
			})
			errs <- err
		}(id)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}

	for _, id := range ids {
		_, statErr := os.Stat(filepath.Join(dir, id+".png"))
		assert.NoError(t, statErr)

		product, err := svc.Verify(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, "Widget "+id, product.Name)
	}
}

func TestStoreFailureLeavesOrphanedImage(t *testing.T) {
	st := &memoryStore{saveErr: errors.New("connection refused")}
	svc, dir := newTestService(t, st)

	_, err := svc.Register(context.Background(), &RegisterProductRequest{
		Name:      "Acme Widget",
		Company:   "Acme Co",
		ProductID: "SKU-ORPHAN",
	})
	assert.ErrorIs(t, err, ErrStorage)

	// No rollback: the image written before the failed insert stays.
	_, statErr := os.Stat(filepath.Join(dir, "SKU-ORPHAN.png"))
	assert.NoError(t, statErr)
}
