package profit

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"

	"github.com/RonnieMoneymaker/2.2-sub001/internal/common"
	"github.com/RonnieMoneymaker/2.2-sub001/internal/obs"
	"github.com/RonnieMoneymaker/2.2-sub001/internal/tenant"
)

// Handler exposes the engine over HTTP.
type Handler struct {
	Engine *Engine
}

// Routes registers the calculation endpoints on r.
func (h *Handler) Routes(r chi.Router) {
	r.Route("/profit", func(p chi.Router) {
		p.Post("/line", h.Line)
		p.Post("/order", h.Order)
		p.Post("/customer", h.Customer)
		p.Post("/monthly", h.Monthly)
		p.Post("/period", h.Period)
		p.Post("/compare", h.Compare)
		p.Post("/break-even", h.BreakEven)
		p.Post("/fixed-costs/allocate", h.AllocateFixedCosts)
	})
	r.Get("/tax/rates/{country}", h.TaxRate)
	r.Post("/shipping/quote", h.ShippingQuote)
}

type lineRequest struct {
	SellingPrice  decimal.Decimal     `json:"selling_price"`
	PurchasePrice decimal.Decimal     `json:"purchase_price"`
	ShippingCost  decimal.NullDecimal `json:"shipping_cost"`
	TaxRate       decimal.NullDecimal `json:"tax_rate"`
	Country       string              `json:"country"`
	Quantity      int                 `json:"quantity"`
}

type lineResponse struct {
	Breakdown
	TaxRate decimal.Decimal `json:"tax_rate"`
	Rating  Rating          `json:"rating"`
}

type orderResponse struct {
	OrderBreakdown
	Rating Rating `json:"rating"`
}

type periodRequest struct {
	Orders     []OrderInput    `json:"orders" validate:"dive"`
	FixedCosts decimal.Decimal `json:"fixed_costs"`
	AdSpend    decimal.Decimal `json:"ad_spend"`
}

type periodResponse struct {
	PeriodProfit
	Rating Rating `json:"rating"`
}

type customerResponse struct {
	CustomerProfit
	Rating Rating `json:"rating"`
}

type compareRequest struct {
	Current  MonthlyInput `json:"current"`
	Previous MonthlyInput `json:"previous"`
}

type allocateRequest struct {
	Days       int         `json:"days"`
	FixedCosts []FixedCost `json:"fixed_costs" validate:"dive"`
}

type shippingRequest struct {
	Country          string          `json:"country" validate:"required"`
	TotalWeightGrams int             `json:"total_weight_grams"`
	OrderValue       decimal.Decimal `json:"order_value"`
}

type taxRateResponse struct {
	Country  string          `json:"country"`
	TaxRate  decimal.Decimal `json:"tax_rate"`
	Fallback bool            `json:"fallback"`
}

// Line computes a single line. The tax rate comes from tax_rate when given and
// from country otherwise.
func (h *Handler) Line(w http.ResponseWriter, r *http.Request) {
	var req lineRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		h.fail(w, "line", err)
		return
	}
	if !req.TaxRate.Valid && req.Country == "" {
		h.fail(w, "line", invalid("country", "country or tax_rate is required"))
		return
	}
	rate := req.TaxRate.Decimal
	if !req.TaxRate.Valid {
		rate = h.Engine.TaxRate(req.Country)
	}
	product := ProductCost{
		SellingPrice:  req.SellingPrice,
		PurchasePrice: req.PurchasePrice,
		ShippingCost:  h.Engine.DefaultShipping(),
	}
	if req.ShippingCost.Valid {
		product.ShippingCost = req.ShippingCost.Decimal
	}
	if err := product.Validate(); err != nil {
		h.fail(w, "line", err)
		return
	}
	b, err := Line(LineInputFor(product, rate, req.Quantity))
	h.respond(w, "line", lineResponse{Breakdown: b, TaxRate: rate, Rating: Classify(b.ProfitMarginPercentage)}, err)
}

// Order computes a full order for its destination country.
func (h *Handler) Order(w http.ResponseWriter, r *http.Request) {
	var req OrderInput
	if err := common.DecodeJSON(r, &req); err != nil {
		h.fail(w, "order", err)
		return
	}
	_, span := obs.StartSpan(r.Context(), "profit.order",
		attribute.String("tenant", tenantOf(r)),
		attribute.String("country", req.Country),
		attribute.Int("lines", len(req.Lines)),
	)
	out, err := h.Engine.Order(req.Lines, req.Country)
	obs.EndSpan(span, err)
	obs.ObserveOrderLines(len(req.Lines))
	h.respond(w, "order", orderResponse{OrderBreakdown: out, Rating: Classify(out.Summary.ProfitMarginPercentage)}, err)
}

// Customer estimates lifetime profit of a customer.
func (h *Handler) Customer(w http.ResponseWriter, r *http.Request) {
	var in CustomerInput
	if err := common.DecodeJSON(r, &in); err != nil {
		h.fail(w, "customer", err)
		return
	}
	out, err := Customer(in)
	h.respond(w, "customer", customerResponse{CustomerProfit: out, Rating: Classify(out.MarginAfterShipping)}, err)
}

// Monthly approximates a month from a flat margin.
func (h *Handler) Monthly(w http.ResponseWriter, r *http.Request) {
	var in MonthlyInput
	if err := common.DecodeJSON(r, &in); err != nil {
		h.fail(w, "monthly", err)
		return
	}
	out, err := Monthly(in)
	h.respond(w, "monthly", periodResponse{PeriodProfit: out, Rating: Classify(out.ProfitMarginPercentage)}, err)
}

// Period computes exact orders and nets period-wide costs against them.
func (h *Handler) Period(w http.ResponseWriter, r *http.Request) {
	var req periodRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		h.fail(w, "period", err)
		return
	}
	_, span := obs.StartSpan(r.Context(), "profit.period",
		attribute.String("tenant", tenantOf(r)),
		attribute.Int("orders", len(req.Orders)),
	)
	out, err := h.Engine.PeriodFromOrders(req.Orders, req.FixedCosts, req.AdSpend)
	obs.EndSpan(span, err)
	h.respond(w, "period", periodResponse{PeriodProfit: out, Rating: Classify(out.ProfitMarginPercentage)}, err)
}

// Compare approximates two months and reports the changes between them.
func (h *Handler) Compare(w http.ResponseWriter, r *http.Request) {
	var req compareRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		h.fail(w, "compare", err)
		return
	}
	current, err := Monthly(req.Current)
	if err != nil {
		h.fail(w, "compare", prefixField("current", err))
		return
	}
	previous, err := Monthly(req.Previous)
	if err != nil {
		h.fail(w, "compare", prefixField("previous", err))
		return
	}
	h.respond(w, "compare", Compare(current, previous), nil)
}

// BreakEven reports the break-even position of the current month.
func (h *Handler) BreakEven(w http.ResponseWriter, r *http.Request) {
	var in BreakEvenInput
	if err := common.DecodeJSON(r, &in); err != nil {
		h.fail(w, "break_even", err)
		return
	}
	out, err := BreakEven(in)
	h.respond(w, "break_even", out, err)
}

// AllocateFixedCosts pro-rates fixed costs over a number of days.
func (h *Handler) AllocateFixedCosts(w http.ResponseWriter, r *http.Request) {
	var req allocateRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		h.fail(w, "allocate_fixed_costs", err)
		return
	}
	out, err := AllocateFixedCosts(req.FixedCosts, req.Days)
	h.respond(w, "allocate_fixed_costs", out, err)
}

// TaxRate resolves the VAT rate of the country in the path.
func (h *Handler) TaxRate(w http.ResponseWriter, r *http.Request) {
	country := chi.URLParam(r, "country")
	if unescaped, err := url.PathUnescape(country); err == nil {
		country = unescaped
	}
	rate, listed := h.Engine.TaxTable().Lookup(country)
	h.respond(w, "tax_rate", taxRateResponse{Country: country, TaxRate: rate, Fallback: !listed}, nil)
}

// ShippingQuote prices a shipment.
func (h *Handler) ShippingQuote(w http.ResponseWriter, r *http.Request) {
	var req shippingRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		h.fail(w, "shipping_quote", err)
		return
	}
	out, err := h.Engine.ShippingQuote(req.Country, req.TotalWeightGrams, req.OrderValue)
	h.respond(w, "shipping_quote", out, err)
}

func (h *Handler) respond(w http.ResponseWriter, operation string, v any, err error) {
	if err != nil {
		h.fail(w, operation, err)
		return
	}
	obs.ObserveCalculation(operation, obs.ResultOK)
	common.Data(w, http.StatusOK, v)
}

func (h *Handler) fail(w http.ResponseWriter, operation string, err error) {
	result := obs.ResultError
	var appErr *common.AppError
	if errors.Is(err, ErrInvalidArgument) || (errors.As(err, &appErr) && appErr.HTTPStatus == http.StatusBadRequest) {
		result = obs.ResultInvalid
	}
	obs.ObserveCalculation(operation, result)
	common.WriteError(w, err)
}

func tenantOf(r *http.Request) string {
	id, _ := tenant.From(r.Context())
	return id
}
