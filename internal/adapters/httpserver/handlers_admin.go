package httpserver

import (
	"bytes"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/phenrril/exactmatch/internal/adapters/spreadsheet"
	"github.com/phenrril/exactmatch/internal/domain"
	"github.com/phenrril/exactmatch/internal/usecase"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// requireStaff answers 401/403 before a body is read.
func requireStaff(w http.ResponseWriter, r *http.Request) bool {
	a := actorFrom(r)
	switch {
	case !a.Authenticated():
		writeError(w, r, domain.ErrUnauthorized, "")
		return false
	case !a.IsStaff:
		writeError(w, r, domain.ErrForbidden, "")
		return false
	}
	return true
}

type brandRequest struct {
	Name        string `json:"name"`
	Logo        string `json:"logo"`
	Description string `json:"description"`
	Website     string `json:"website"`
	Country     string `json:"country"`
	IsPopular   bool   `json:"is_popular"`
}

func (b brandRequest) input() domain.BrandInput {
	return domain.BrandInput{
		Name:        b.Name,
		Logo:        b.Logo,
		Description: b.Description,
		Website:     b.Website,
		Country:     b.Country,
		IsPopular:   b.IsPopular,
	}
}

func (s *Server) adminCreateBrand(w http.ResponseWriter, r *http.Request) {
	var req brandRequest
	if !requireStaff(w, r) || !decodeJSON(w, r, &req) {
		return
	}
	b, err := s.catalog.CreateBrand(r.Context(), actorFrom(r), req.input())
	if err != nil {
		writeError(w, r, err, "Brand not found")
		return
	}
	writeJSON(w, 201, s.viewsFor(r).brandWithCount(b))
}

func (s *Server) adminUpdateBrand(w http.ResponseWriter, r *http.Request) {
	var req brandRequest
	if !requireStaff(w, r) {
		return
	}
	id, ok := pathUint(r, "id")
	if !ok {
		writeMessage(w, 404, "error", "Brand not found")
		return
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	b, err := s.catalog.UpdateBrand(r.Context(), actorFrom(r), id, req.input())
	if err != nil {
		writeError(w, r, err, "Brand not found")
		return
	}
	writeJSON(w, 200, s.viewsFor(r).brandWithCount(b))
}

func (s *Server) adminDeleteBrand(w http.ResponseWriter, r *http.Request) {
	if !requireStaff(w, r) {
		return
	}
	id, ok := pathUint(r, "id")
	if !ok {
		writeMessage(w, 404, "error", "Brand not found")
		return
	}
	if err := s.catalog.DeleteBrand(r.Context(), actorFrom(r), id); err != nil {
		writeError(w, r, err, "Brand not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type categoryRequest struct {
	Name           string              `json:"name"`
	CategoryType   domain.CategoryKind `json:"category_type"`
	Description    string              `json:"description"`
	Image          string              `json:"image"`
	ParentCategory *uint               `json:"parent_category"`
	IsActive       *bool               `json:"is_active"`
	DisplayOrder   int                 `json:"display_order"`
}

func (c categoryRequest) input() domain.CategoryInput {
	in := domain.CategoryInput{
		Name:             c.Name,
		CategoryType:     c.CategoryType,
		Description:      c.Description,
		Image:            c.Image,
		ParentCategoryID: c.ParentCategory,
		IsActive:         true,
		DisplayOrder:     c.DisplayOrder,
	}
	if c.IsActive != nil {
		in.IsActive = *c.IsActive
	}
	return in
}

func (s *Server) adminCreateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if !requireStaff(w, r) || !decodeJSON(w, r, &req) {
		return
	}
	c, err := s.catalog.CreateCategory(r.Context(), actorFrom(r), req.input())
	if err != nil {
		writeError(w, r, err, "Category not found")
		return
	}
	writeJSON(w, 201, s.viewsFor(r).categoryTree(c))
}

func (s *Server) adminUpdateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if !requireStaff(w, r) {
		return
	}
	id, ok := pathUint(r, "id")
	if !ok {
		writeMessage(w, 404, "error", "Category not found")
		return
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	c, err := s.catalog.UpdateCategory(r.Context(), actorFrom(r), id, req.input())
	if err != nil {
		writeError(w, r, err, "Category not found")
		return
	}
	writeJSON(w, 200, s.viewsFor(r).categoryTree(c))
}

type batteryRequest struct {
	Name               string           `json:"name"`
	Brand              uint             `json:"brand"`
	Categories         []uint           `json:"categories"`
	CompatibleVehicles []string         `json:"compatible_vehicles"`
	VehicleMakes       []string         `json:"vehicle_makes"`
	VehicleModels      []string         `json:"vehicle_models"`
	ModelNumber        string           `json:"model_number"`
	Voltage            domain.Voltage   `json:"voltage"`
	AmpHours           int              `json:"amp_hours"`
	ColdCrankingAmps   int              `json:"cold_cranking_amps"`
	ReserveCapacity    int              `json:"reserve_capacity"`
	Length             decimal.Decimal  `json:"length"`
	Width              decimal.Decimal  `json:"width"`
	Height             decimal.Decimal  `json:"height"`
	Weight             decimal.Decimal  `json:"weight"`
	Condition          domain.Condition `json:"condition"`
	Price              decimal.Decimal  `json:"price"`
	OriginalPrice      *decimal.Decimal `json:"original_price"`
	StockQuantity      int              `json:"stock_quantity"`
	Description        string           `json:"description"`
	ShortDescription   string           `json:"short_description"`
	Features           []string         `json:"features"`
	Compatibility      []string         `json:"compatibility"`
	Slug               string           `json:"slug"`
	IsFeatured         bool             `json:"is_featured"`
	IsPopular          bool             `json:"is_popular"`
	IsActive           *bool            `json:"is_active"`
}

func (b batteryRequest) input() domain.BatteryInput {
	in := domain.BatteryInput{
		Name:               b.Name,
		BrandID:            b.Brand,
		CategoryIDs:        b.Categories,
		CompatibleVehicles: b.CompatibleVehicles,
		VehicleMakes:       b.VehicleMakes,
		VehicleModels:      b.VehicleModels,
		ModelNumber:        b.ModelNumber,
		Voltage:            b.Voltage,
		AmpHours:           b.AmpHours,
		ColdCrankingAmps:   b.ColdCrankingAmps,
		ReserveCapacity:    b.ReserveCapacity,
		Length:             b.Length,
		Width:              b.Width,
		Height:             b.Height,
		Weight:             b.Weight,
		Condition:          b.Condition,
		Price:              b.Price,
		OriginalPrice:      b.OriginalPrice,
		StockQuantity:      b.StockQuantity,
		Description:        b.Description,
		ShortDescription:   b.ShortDescription,
		Features:           b.Features,
		Compatibility:      b.Compatibility,
		Slug:               b.Slug,
		IsFeatured:         b.IsFeatured,
		IsPopular:          b.IsPopular,
		IsActive:           true,
	}
	if b.IsActive != nil {
		in.IsActive = *b.IsActive
	}
	return in
}

func (s *Server) adminCreateBattery(w http.ResponseWriter, r *http.Request) {
	var req batteryRequest
	if !requireStaff(w, r) || !decodeJSON(w, r, &req) {
		return
	}
	b, err := s.catalog.CreateBattery(r.Context(), actorFrom(r), req.input())
	if err != nil {
		writeError(w, r, err, batteryNotFound)
		return
	}
	writeJSON(w, 201, s.viewsFor(r).batteryDetail(b))
}

func (s *Server) adminUpdateBattery(w http.ResponseWriter, r *http.Request) {
	var req batteryRequest
	if !requireStaff(w, r) {
		return
	}
	id, ok := pathUUID(r, "id")
	if !ok {
		writeMessage(w, 404, "error", batteryNotFound)
		return
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	b, err := s.catalog.UpdateBattery(r.Context(), actorFrom(r), id, req.input())
	if err != nil {
		writeError(w, r, err, batteryNotFound)
		return
	}
	writeJSON(w, 200, s.viewsFor(r).batteryDetail(b))
}

func (s *Server) adminDeleteBattery(w http.ResponseWriter, r *http.Request) {
	if !requireStaff(w, r) {
		return
	}
	id, ok := pathUUID(r, "id")
	if !ok {
		writeMessage(w, 404, "error", batteryNotFound)
		return
	}
	if err := s.catalog.DeleteBattery(r.Context(), actorFrom(r), id); err != nil {
		writeError(w, r, err, batteryNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// parseMultipart bounds the body and parses the form, answering itself on
// failure.
func parseMultipart(w http.ResponseWriter, r *http.Request) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxMultipartBody)
	if err := r.ParseMultipartForm(maxMultipartBody); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			writeMessage(w, http.StatusRequestEntityTooLarge, "error", "upload too large")
			return false
		}
		writeMessage(w, 400, "error", "invalid multipart form")
		return false
	}
	return true
}

func (s *Server) adminAddImage(w http.ResponseWriter, r *http.Request) {
	if !requireStaff(w, r) {
		return
	}
	id, ok := pathUUID(r, "id")
	if !ok {
		writeMessage(w, 404, "error", batteryNotFound)
		return
	}
	if !parseMultipart(w, r) {
		return
	}
	defer r.MultipartForm.RemoveAll()

	up := usecase.ImageUpload{AltText: r.FormValue("alt_text")}
	up.IsPrimary, _ = strconv.ParseBool(r.FormValue("is_primary"))
	if o := strings.TrimSpace(r.FormValue("order")); o != "" {
		n, err := strconv.Atoi(o)
		if err != nil {
			writeJSON(w, 400, map[string]string{"order": "a valid integer is required"})
			return
		}
		up.Order = n
	}
	file, hdr, err := r.FormFile("image")
	if err == nil {
		defer file.Close()
		up.Filename = hdr.Filename
		up.Content = file
	}
	img, err := s.catalog.AddImage(r.Context(), actorFrom(r), id, up)
	if err != nil {
		writeError(w, r, err, batteryNotFound)
		return
	}
	writeJSON(w, 201, s.viewsFor(r).image(img))
}

func (s *Server) adminSetPrimaryImage(w http.ResponseWriter, r *http.Request) {
	if !requireStaff(w, r) {
		return
	}
	id, ok1 := pathUUID(r, "id")
	imageID, ok2 := pathUUID(r, "image_id")
	if !ok1 || !ok2 {
		writeMessage(w, 404, "error", "Image not found")
		return
	}
	if err := s.catalog.SetPrimaryImage(r.Context(), actorFrom(r), id, imageID); err != nil {
		writeError(w, r, err, "Image not found")
		return
	}
	writeMessage(w, 200, "message", "Primary image updated")
}

func (s *Server) adminDeleteImage(w http.ResponseWriter, r *http.Request) {
	if !requireStaff(w, r) {
		return
	}
	id, ok1 := pathUUID(r, "id")
	imageID, ok2 := pathUUID(r, "image_id")
	if !ok1 || !ok2 {
		writeMessage(w, 404, "error", "Image not found")
		return
	}
	if err := s.catalog.DeleteImage(r.Context(), actorFrom(r), id, imageID); err != nil {
		writeError(w, r, err, "Image not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) adminExportCatalog(w http.ResponseWriter, r *http.Request) {
	if !requireStaff(w, r) {
		return
	}
	list, err := s.catalog.ExportCatalog(r.Context(), actorFrom(r))
	if err != nil {
		writeError(w, r, err, batteryNotFound)
		return
	}
	var buf bytes.Buffer
	if err := spreadsheet.WriteCatalog(&buf, list); err != nil {
		writeError(w, r, err, batteryNotFound)
		return
	}
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="catalog.xlsx"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	_, _ = w.Write(buf.Bytes())
}

type importErrorView struct {
	Line  int    `json:"line"`
	Error string `json:"error"`
}

func (s *Server) adminImportCatalog(w http.ResponseWriter, r *http.Request) {
	if !requireStaff(w, r) || !parseMultipart(w, r) {
		return
	}
	defer r.MultipartForm.RemoveAll()
	file, _, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, 400, map[string]string{"file": "no file was submitted"})
		return
	}
	defer file.Close()
	rows, err := spreadsheet.ReadCatalog(file)
	if err != nil {
		writeJSON(w, 400, map[string]string{"file": err.Error()})
		return
	}
	rep, err := s.catalog.ImportCatalog(r.Context(), actorFrom(r), rows)
	if err != nil {
		writeError(w, r, err, batteryNotFound)
		return
	}
	errs := make([]importErrorView, 0, len(rep.Errors))
	for _, e := range rep.Errors {
		errs = append(errs, importErrorView{Line: e.Line, Error: e.Err})
	}
	writeJSON(w, 200, map[string]any{"created": rep.Created, "updated": rep.Updated, "errors": errs})
}

func (s *Server) adminUpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status domain.OrderStatus `json:"status"`
	}
	if !requireStaff(w, r) {
		return
	}
	id, ok := pathUUID(r, "id")
	if !ok {
		writeMessage(w, 404, "error", orderNotFound)
		return
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	o, err := s.orders.UpdateStatus(r.Context(), actorFrom(r), id, req.Status)
	if err != nil {
		writeError(w, r, err, orderNotFound)
		return
	}
	writeJSON(w, 200, s.viewsFor(r).order(o))
}
