package ui

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/me/dealerdash/internal/api"
	"github.com/me/dealerdash/internal/validate"
	"github.com/me/dealerdash/pkg/model"
)

// DefaultPages returns the standard page set for the dealer API. Adding an
// admin page for a new backend resource means adding a config here, nothing
// else.
func DefaultPages() []Page {
	return []Page{
		VehiclesPage(),
		MakesPage(),
		ModelsPage(),
		EnquiriesPage(),
		SalesPage(),
		ReferencePage("Fuel Type", "Fuel Types", "fuel-types", "fuelTypes"),
		ReferencePage("Transmission", "Transmissions", "transmissions", "transmissions"),
		ReferencePage("Drivetrain", "Drivetrains", "drivetrains", "drivetrains"),
		ReferencePage("Status", "Vehicle Statuses", "vehicle-statuses", "vehicleStatuses"),
	}
}

// VehiclesPage is the stock list: the richest page, with search, two filters
// and the full vehicle form.
func VehiclesPage() *ResourcePage[model.Vehicle] {
	return NewResourcePage(ResourceConfig[model.Vehicle]{
		Singular:   "Vehicle",
		Plural:     "Vehicles",
		Slug:       "vehicles",
		Searchable: true,
		CanDelete:  true,
		ID:         func(v *model.Vehicle) string { return v.ID },
		Ops: func(c *api.Client) Operations[model.Vehicle] {
			return api.NewResource[model.Vehicle](c, "/vehicles", "vehicles")
		},
		Columns: []Column[model.Vehicle]{
			{Label: "Vehicle", Value: func(v *model.Vehicle) string { return v.Title() }},
			{Label: "Year", Value: func(v *model.Vehicle) string { return strconv.Itoa(v.Year) }},
			{Label: "Price", Value: func(v *model.Vehicle) string { return formatMoney(v.Price) }},
			{Label: "Mileage", Value: func(v *model.Vehicle) string { return strconv.Itoa(v.Mileage) }},
			{Label: "Status", Value: func(v *model.Vehicle) string { return v.StatusName }},
		},
		Filters: []Filter{
			{Key: "makeId", Label: "Make", LoadOptions: loadMakeOptions},
			{Key: "statusId", Label: "Status", LoadOptions: loadReferenceOptions("/vehicle-statuses", "vehicleStatuses")},
		},
		Fields: []Field{
			{Key: "makeId", Label: "Make", Kind: FieldSelect, Required: true, LoadOptions: loadMakeOptions},
			{Key: "modelId", Label: "Model", Kind: FieldSelect, Required: true, LoadOptions: loadModelOptions},
			{Key: "year", Label: "Year", Kind: FieldNumber, Required: true,
				Rule: validate.Rule{Expr: "value >= 1900 && value <= 2100", Message: "Year must be between 1900 and 2100"}},
			{Key: "price", Label: "Price", Kind: FieldNumber, Required: true,
				Rule: validate.Rule{Expr: "value > 0", Message: "Price must be positive"}},
			{Key: "mileage", Label: "Mileage", Kind: FieldNumber, Required: true,
				Rule: validate.Rule{Expr: "value >= 0", Message: "Mileage cannot be negative"}},
			{Key: "vin", Label: "VIN", Kind: FieldText, Placeholder: "17-character VIN",
				Rule: validate.Rule{Expr: "value === \"\" || value.length === 17", Message: "VIN must be 17 characters"}},
			{Key: "colour", Label: "Colour", Kind: FieldText},
			{Key: "fuelTypeId", Label: "Fuel Type", Kind: FieldSelect, LoadOptions: loadReferenceOptions("/fuel-types", "fuelTypes")},
			{Key: "transmissionId", Label: "Transmission", Kind: FieldSelect, LoadOptions: loadReferenceOptions("/transmissions", "transmissions")},
			{Key: "drivetrainId", Label: "Drivetrain", Kind: FieldSelect, LoadOptions: loadReferenceOptions("/drivetrains", "drivetrains")},
			{Key: "statusId", Label: "Status", Kind: FieldSelect, LoadOptions: loadReferenceOptions("/vehicle-statuses", "vehicleStatuses")},
			{Key: "description", Label: "Description", Kind: FieldTextarea},
		},
	})
}

// MakesPage manages manufacturers.
func MakesPage() *ResourcePage[model.Make] {
	return NewResourcePage(ResourceConfig[model.Make]{
		Singular:   "Make",
		Plural:     "Makes",
		Slug:       "makes",
		Searchable: true,
		CanDelete:  true,
		HasToggle:  true,
		ID:         func(m *model.Make) string { return m.ID },
		Active:     func(m *model.Make) bool { return m.Active },
		Ops: func(c *api.Client) Operations[model.Make] {
			return api.NewResource[model.Make](c, "/makes", "makes")
		},
		Columns: []Column[model.Make]{
			{Label: "Name", Value: func(m *model.Make) string { return m.Name }},
			{Label: "Active", Value: func(m *model.Make) string { return yesNo(m.Active) }},
			{Label: "Created", Value: func(m *model.Make) string { return formatDate(m.CreatedAt) }},
		},
		Fields: []Field{
			{Key: "name", Label: "Name", Kind: FieldText, Required: true,
				Rule: validate.Rule{Expr: "value.length >= 2", Message: "Name must be at least 2 characters"}},
			{Key: "active", Label: "Active", Kind: FieldCheckbox},
		},
	})
}

// ModelsPage manages model lines, filterable by make.
func ModelsPage() *ResourcePage[model.VehicleModel] {
	return NewResourcePage(ResourceConfig[model.VehicleModel]{
		Singular:   "Model",
		Plural:     "Models",
		Slug:       "models",
		Searchable: true,
		CanDelete:  true,
		HasToggle:  true,
		ID:         func(m *model.VehicleModel) string { return m.ID },
		Active:     func(m *model.VehicleModel) bool { return m.Active },
		Ops: func(c *api.Client) Operations[model.VehicleModel] {
			return api.NewResource[model.VehicleModel](c, "/models", "models")
		},
		Columns: []Column[model.VehicleModel]{
			{Label: "Name", Value: func(m *model.VehicleModel) string { return m.Name }},
			{Label: "Make", Value: func(m *model.VehicleModel) string { return m.MakeName }},
			{Label: "Active", Value: func(m *model.VehicleModel) string { return yesNo(m.Active) }},
		},
		Filters: []Filter{
			{Key: "makeId", Label: "Make", LoadOptions: loadMakeOptions},
		},
		Fields: []Field{
			{Key: "makeId", Label: "Make", Kind: FieldSelect, Required: true, LoadOptions: loadMakeOptions},
			{Key: "name", Label: "Name", Kind: FieldText, Required: true,
				Rule: validate.Rule{Expr: "value.length >= 1", Message: "Name is required"}},
			{Key: "active", Label: "Active", Kind: FieldCheckbox},
		},
	})
}

// EnquiriesPage tracks customer enquiries; staff move them through the
// new / contacted / closed pipeline.
func EnquiriesPage() *ResourcePage[model.Enquiry] {
	statusOptions := []Option{
		{Value: model.EnquiryStatusNew, Label: "New"},
		{Value: model.EnquiryStatusContacted, Label: "Contacted"},
		{Value: model.EnquiryStatusClosed, Label: "Closed"},
	}
	return NewResourcePage(ResourceConfig[model.Enquiry]{
		Singular:   "Enquiry",
		Plural:     "Enquiries",
		Slug:       "enquiries",
		Searchable: true,
		CanDelete:  true,
		ID:         func(e *model.Enquiry) string { return e.ID },
		Ops: func(c *api.Client) Operations[model.Enquiry] {
			return api.NewResource[model.Enquiry](c, "/enquiries", "enquiries")
		},
		Columns: []Column[model.Enquiry]{
			{Label: "Name", Value: func(e *model.Enquiry) string { return e.Name }},
			{Label: "Email", Value: func(e *model.Enquiry) string { return e.Email }},
			{Label: "Vehicle", Value: func(e *model.Enquiry) string { return e.VehicleTitle }},
			{Label: "Status", Value: func(e *model.Enquiry) string { return e.Status }},
			{Label: "Received", Value: func(e *model.Enquiry) string { return formatDate(e.CreatedAt) }},
		},
		Filters: []Filter{
			{Key: "status", Label: "Status", Options: statusOptions},
		},
		Fields: []Field{
			{Key: "name", Label: "Name", Kind: FieldText, Required: true},
			{Key: "email", Label: "Email", Kind: FieldText, Required: true,
				Rule: validate.Rule{Expr: "value.indexOf(\"@\") > 0", Message: "Enter a valid email address"}},
			{Key: "phone", Label: "Phone", Kind: FieldText},
			{Key: "vehicleId", Label: "Vehicle", Kind: FieldSelect, LoadOptions: loadVehicleOptions},
			{Key: "status", Label: "Status", Kind: FieldSelect, Required: true, Options: statusOptions},
			{Key: "message", Label: "Message", Kind: FieldTextarea, Required: true},
		},
	})
}

// SalesPage records completed sales. Sales are never deleted from the UI.
func SalesPage() *ResourcePage[model.Sale] {
	return NewResourcePage(ResourceConfig[model.Sale]{
		Singular:   "Sale",
		Plural:     "Sales",
		Slug:       "sales",
		Searchable: true,
		ID:         func(s *model.Sale) string { return s.ID },
		Ops: func(c *api.Client) Operations[model.Sale] {
			return api.NewResource[model.Sale](c, "/sales", "sales")
		},
		Columns: []Column[model.Sale]{
			{Label: "Vehicle", Value: func(s *model.Sale) string { return s.Vehicle.Title() }},
			{Label: "Buyer", Value: func(s *model.Sale) string { return s.BuyerName }},
			{Label: "Price", Value: func(s *model.Sale) string { return formatMoney(s.Price) }},
			{Label: "Sold", Value: func(s *model.Sale) string { return formatDate(s.SoldAt) }},
		},
		Fields: []Field{
			{Key: "vehicle", Label: "Vehicle", Kind: FieldSelect, Required: true, LoadOptions: loadVehicleOptions},
			{Key: "buyerName", Label: "Buyer Name", Kind: FieldText, Required: true,
				Rule: validate.Rule{Expr: "value.length >= 2", Message: "Buyer name must be at least 2 characters"}},
			{Key: "price", Label: "Sale Price", Kind: FieldNumber, Required: true,
				Rule: validate.Rule{Expr: "value > 0", Message: "Price must be positive"}},
			{Key: "soldAt", Label: "Sold On", Kind: FieldDate, Required: true},
		},
	})
}

// ReferencePage builds a page for one of the simple lookup collections. They
// all share the Reference shape and differ only in naming and API path.
func ReferencePage(singular, plural, slug, jsonKey string) *ResourcePage[model.Reference] {
	return NewResourcePage(ResourceConfig[model.Reference]{
		Singular:  singular,
		Plural:    plural,
		Slug:      slug,
		CanDelete: true,
		HasToggle: true,
		AdminOnly: true,
		ID:        func(r *model.Reference) string { return r.ID },
		Active:    func(r *model.Reference) bool { return r.Active },
		Ops: func(c *api.Client) Operations[model.Reference] {
			return api.NewResource[model.Reference](c, "/"+slug, jsonKey)
		},
		Columns: []Column[model.Reference]{
			{Label: "Name", Value: func(r *model.Reference) string { return r.Name }},
			{Label: "Active", Value: func(r *model.Reference) string { return yesNo(r.Active) }},
		},
		Fields: []Field{
			{Key: "name", Label: "Name", Kind: FieldText, Required: true},
			{Key: "active", Label: "Active", Kind: FieldCheckbox},
		},
	})
}

// --- Option loaders ---

// optionPageLimit bounds select/filter option fetches.
const optionPageLimit = 100

func loadMakeOptions(ctx context.Context, c *api.Client) ([]Option, error) {
	res := api.NewResource[model.Make](c, "/makes", "makes")
	page, err := res.List(ctx, model.ListQuery{Page: 1, Limit: optionPageLimit})
	if err != nil {
		return nil, err
	}
	opts := make([]Option, 0, len(page.Items))
	for _, m := range page.Items {
		opts = append(opts, Option{Value: m.ID, Label: m.Name})
	}
	return opts, nil
}

func loadModelOptions(ctx context.Context, c *api.Client) ([]Option, error) {
	res := api.NewResource[model.VehicleModel](c, "/models", "models")
	page, err := res.List(ctx, model.ListQuery{Page: 1, Limit: optionPageLimit})
	if err != nil {
		return nil, err
	}
	opts := make([]Option, 0, len(page.Items))
	for _, m := range page.Items {
		label := m.Name
		if m.MakeName != "" {
			label = m.MakeName + " " + m.Name
		}
		opts = append(opts, Option{Value: m.ID, Label: label})
	}
	return opts, nil
}

func loadVehicleOptions(ctx context.Context, c *api.Client) ([]Option, error) {
	res := api.NewResource[model.Vehicle](c, "/vehicles", "vehicles")
	page, err := res.List(ctx, model.ListQuery{Page: 1, Limit: optionPageLimit})
	if err != nil {
		return nil, err
	}
	opts := make([]Option, 0, len(page.Items))
	for _, v := range page.Items {
		opts = append(opts, Option{Value: v.ID, Label: fmt.Sprintf("%s (%d)", v.Title(), v.Year)})
	}
	return opts, nil
}

func loadReferenceOptions(path, jsonKey string) func(ctx context.Context, c *api.Client) ([]Option, error) {
	return func(ctx context.Context, c *api.Client) ([]Option, error) {
		res := api.NewResource[model.Reference](c, path, jsonKey)
		page, err := res.List(ctx, model.ListQuery{Page: 1, Limit: optionPageLimit})
		if err != nil {
			return nil, err
		}
		opts := make([]Option, 0, len(page.Items))
		for _, ref := range page.Items {
			opts = append(opts, Option{Value: ref.ID, Label: ref.Name})
		}
		return opts, nil
	}
}

// --- Formatting helpers shared by column configs ---

func formatMoney(v float64) string {
	return fmt.Sprintf("£%.2f", v)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02")
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
