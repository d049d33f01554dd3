package core

import (
	"encoding/json"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PriceScale is the number of decimal places a stored price keeps.
const PriceScale = 2

var (
	// MinPrice is the lowest price a product may carry.
	MinPrice = decimal.New(1, -PriceScale)
	// MaxPrice is the first price that no longer fits the price column.
	MaxPrice = decimal.New(1, 16)
)

// RoundPrice brings a price to the scale it is stored with.
func RoundPrice(price decimal.Decimal) decimal.Decimal {
	return price.Round(PriceScale)
}

// Company is the root of the catalog hierarchy.
type Company struct {
	ID          uuid.UUID `db:"id"`
	Code        int       `db:"code"`
	Name        string    `db:"name"`
	CountryCode string    `db:"country_code"`
}

// Update overwrites every mutable field.
func (c *Company) Update(name, countryCode string) {
	c.Name = name
	c.CountryCode = countryCode
}

func (c *Company) DTO() *CompanyDTO {
	return &CompanyDTO{Code: c.Code, Name: c.Name, CountryCode: c.CountryCode}
}

// Store belongs to exactly one Company. CompanyCode is only filled in by
// finders that join the owning company.
type Store struct {
	ID          uuid.UUID `db:"id"`
	Code        int       `db:"code"`
	Name        string    `db:"name"`
	Address     string    `db:"address"`
	CompanyID   uuid.UUID `db:"company_id"`
	CompanyCode int       `db:"company_code"`
}

// Update overwrites every mutable field.
func (s *Store) Update(name, address string) {
	s.Name = name
	s.Address = address
}

func (s *Store) DTO() *StoreDTO {
	return &StoreDTO{Code: s.Code, CompanyCode: s.CompanyCode, Name: s.Name, Address: s.Address}
}

// Product belongs to exactly one Store. StoreCode and CompanyCode are filled
// in by finders that join the hierarchy.
type Product struct {
	ID          uuid.UUID       `db:"id"`
	Code        int             `db:"code"`
	Name        string          `db:"name"`
	Description string          `db:"description"`
	Price       decimal.Decimal `db:"price"`
	StoreID     uuid.UUID       `db:"store_id"`
	StoreCode   int             `db:"store_code"`
	CompanyCode int             `db:"company_code"`
}

// Update overwrites every mutable field.
func (p *Product) Update(name, description string, price decimal.Decimal) {
	p.Name = name
	p.Description = description
	p.Price = RoundPrice(price)
}

func (p *Product) DTO() *ProductDTO {
	return &ProductDTO{
		Code:        p.Code,
		StoreCode:   p.StoreCode,
		CompanyCode: p.CompanyCode,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
	}
}

// CompanyDTO is the public projection of a Company.
type CompanyDTO struct {
	Code        int    `json:"code"`
	Name        string `json:"name"`
	CountryCode string `json:"countryCode"`
}

// StoreDTO is the public projection of a Store.
type StoreDTO struct {
	Code        int    `json:"code"`
	CompanyCode int    `json:"companyCode"`
	Name        string `json:"name"`
	Address     string `json:"address"`
}

// ProductDTO is the public projection of a Product.
type ProductDTO struct {
	Code        int             `json:"code"`
	StoreCode   int             `json:"storeCode"`
	CompanyCode int             `json:"companyCode"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
}

// MarshalJSON writes the price as a JSON number rather than a string.
func (p ProductDTO) MarshalJSON() ([]byte, error) {
	type plain ProductDTO
	return json.Marshal(struct {
		plain
		Price json.Number `json:"price"`
	}{plain(p), json.Number(p.Price.String())})
}

type CompanyCreate struct {
	Code        int    `json:"code"`
	Name        string `json:"name"`
	CountryCode string `json:"countryCode"`
}

func (in CompanyCreate) Validate() error {
	v := &ValidationError{}
	checkCode(v, in.Code)
	checkRequired(v, "name", in.Name)
	checkRequired(v, "countryCode", in.CountryCode)
	return v.orNil()
}

type CompanyUpdate struct {
	Name        string `json:"name"`
	CountryCode string `json:"countryCode"`
}

func (in CompanyUpdate) Validate() error {
	v := &ValidationError{}
	checkRequired(v, "name", in.Name)
	checkRequired(v, "countryCode", in.CountryCode)
	return v.orNil()
}

type StoreCreate struct {
	Code    int    `json:"code"`
	Name    string `json:"name"`
	Address string `json:"address"`
}

func (in StoreCreate) Validate() error {
	v := &ValidationError{}
	checkCode(v, in.Code)
	checkRequired(v, "name", in.Name)
	checkRequired(v, "address", in.Address)
	return v.orNil()
}

type StoreUpdate struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

func (in StoreUpdate) Validate() error {
	v := &ValidationError{}
	checkRequired(v, "name", in.Name)
	checkRequired(v, "address", in.Address)
	return v.orNil()
}

type ProductCreate struct {
	Code        int             `json:"code"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
}

func (in ProductCreate) Validate() error {
	v := &ValidationError{}
	checkCode(v, in.Code)
	checkRequired(v, "name", in.Name)
	checkRequired(v, "description", in.Description)
	checkPrice(v, in.Price)
	return v.orNil()
}

type ProductUpdate struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
}

func (in ProductUpdate) Validate() error {
	v := &ValidationError{}
	checkRequired(v, "name", in.Name)
	checkRequired(v, "description", in.Description)
	checkPrice(v, in.Price)
	return v.orNil()
}

func checkCode(v *ValidationError, code int) {
	if code <= 0 {
		v.Add("code", "code must be greater than 0")
	}
}

func checkRequired(v *ValidationError, field, value string) {
	if strings.TrimSpace(value) == "" {
		v.Add(field, field+" is required")
	}
}

func checkPrice(v *ValidationError, price decimal.Decimal) {
	switch {
	case price.LessThan(MinPrice):
		v.Add("price", "price must be at least 0.01")
	case RoundPrice(price).GreaterThanOrEqual(MaxPrice):
		v.Add("price", "price must be less than 10000000000000000")
	}
}
