package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/sirupsen/logrus"

	"github.com/nafcode/product-registry/internal/models"
	"github.com/nafcode/product-registry/internal/store"
	"github.com/nafcode/product-registry/internal/utils"
)

// Registration failure taxonomy. Handlers translate these to status codes
// with errors.Is; the wrapped cause stays server-side.
var (
	ErrValidation = errors.New("validation failed")
	ErrGeneration = errors.New("code generation failed")
	ErrStorage    = errors.New("storage failed")
)

type ProductService struct {
	store         store.ProductStore
	encoder       CodeEncoder
	images        ImageStore
	publicBaseURL string
}

type RegisterProductRequest struct {
	Name      string `json:"name" validate:"required"`
	Company   string `json:"company" validate:"required"`
	ProductID string `json:"productId" validate:"required"`
}

type RegistrationResult struct {
	Message  string `json:"message"`
	ImageURL string `json:"imageURL"`
}

func NewProductService(store store.ProductStore, encoder CodeEncoder, images ImageStore, publicBaseURL string) *ProductService {
	return &ProductService{
		store:         store,
		encoder:       encoder,
		images:        images,
		publicBaseURL: publicBaseURL,
	}
}

// Register runs the registration workflow: validate, build the
// verification URL, generate the code image, persist the record. The image
// write and the record insert are not transactional: a storage failure
// after a successful image write leaves the image behind with no record.
func (s *ProductService) Register(ctx context.Context, req *RegisterProductRequest) (*RegistrationResult, error) {
	if err := utils.ValidateStruct(req); err != nil {
		// The response body stays generic; which fields were missing goes
		// to the log only.
		logrus.WithField("fields", utils.GetValidationErrors(err)).
			Info("Registration rejected: missing required fields")
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	// The identifier is percent-encoded only inside the URL; the stored
	// value stays raw so the verify lookup matches after decoding.
	verifyURL := fmt.Sprintf("%s/verify/%s", s.publicBaseURL, url.PathEscape(req.ProductID))

	png, err := s.encoder.Encode(verifyURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGeneration, err)
	}

	// Filename uses the identifier verbatim; identifiers with path-unsafe
	// characters are an accepted input-trust boundary.
	imageURL, err := s.images.Put(ctx, req.ProductID+".png", png)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGeneration, err)
	}

	product := &models.Product{
		Name:       req.Name,
		Company:    req.Company,
		ProductID:  req.ProductID,
		Registered: true,
		QRCodePath: imageURL,
	}

	if err := s.store.Save(ctx, product); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	return &RegistrationResult{
		Message:  "Product registered",
		ImageURL: imageURL,
	}, nil
}

// Verify resolves a scanned identifier back to its record. The raw path
// segment is unescaped first; an identifier that was never encoded passes
// through unchanged, and an unescapable value falls back to the raw string
// rather than failing the lookup.
func (s *ProductService) Verify(ctx context.Context, rawProductID string) (*models.Product, error) {
	productID, err := url.PathUnescape(rawProductID)
	if err != nil {
		productID = rawProductID
	}

	product, err := s.store.FindByProductID(ctx, productID)
	if err != nil {
		if errors.Is(err, store.ErrProductNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	return product, nil
}
