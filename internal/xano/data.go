package xano

import (
	"context"
	"math"
	"net/url"
	"strconv"

	"chargecars-portal/internal/domain"
)

// listEnvelope es el formato de listas paginadas de Xano.
type listEnvelope[T any] struct {
	Page         int  `json:"page"`
	PerPage      int  `json:"per_page"`
	Offset       int  `json:"offset"`
	HasMoreItems bool `json:"has_more_items"`
	FoundCount   int  `json:"found_count"`
	Items        []T  `json:"items"`
}

func (e listEnvelope[T]) pagination(defaultPerPage int) domain.Pagination {
	perPage := e.PerPage
	if perPage <= 0 {
		perPage = defaultPerPage
	}
	page := e.Page
	if page <= 0 {
		page = 1
	}
	return domain.Pagination{
		CurrentPage:  page,
		TotalPages:   int(math.Ceil(float64(e.FoundCount) / float64(perPage))),
		PerPage:      perPage,
		TotalItems:   e.FoundCount,
		HasMoreItems: e.HasMoreItems,
	}
}

func (c *Client) ListOrders(ctx context.Context, token string, f domain.OrderFilters) ([]domain.Order, domain.Pagination, error) {
	params := url.Values{}
	addParam(params, "search", f.Search)
	addParam(params, "business_entity", f.BusinessEntity)
	addParam(params, "order_type", f.OrderType)
	addParam(params, "status", f.Status)
	addParam(params, "priority", f.Priority)
	addParam(params, "date_from", f.DateFrom)
	addParam(params, "date_to", f.DateTo)
	addIntParam(params, "page", f.Page)
	addIntParam(params, "per_page", f.PerPage)

	var env listEnvelope[domain.Order]
	if err := c.getJSON(ctx, withQuery(c.dataURL+"/order", params), token, &env); err != nil {
		return nil, domain.Pagination{}, err
	}
	items := env.Items
	if items == nil {
		items = []domain.Order{}
	}
	return items, env.pagination(20), nil
}

func (c *Client) GetOrder(ctx context.Context, token, id string) (domain.Order, error) {
	var order domain.Order
	err := c.getJSON(ctx, c.dataURL+"/order/"+url.PathEscape(id), token, &order)
	return order, err
}

func (c *Client) ListCustomers(ctx context.Context, token string, f domain.CustomerFilters) ([]domain.Customer, domain.Pagination, error) {
	params := url.Values{}
	addParam(params, "search", f.Search)
	addParam(params, "contact_type", f.ContactType)
	addParam(params, "contact_subtype", f.ContactSubtype)
	addParam(params, "status", f.Status)
	addParam(params, "communication_preference", f.CommunicationPreference)
	addParam(params, "parent_organization", f.ParentOrganization)
	addIntParam(params, "page", f.Page)
	addIntParam(params, "per_page", f.PerPage)

	var env listEnvelope[domain.Customer]
	if err := c.getJSON(ctx, withQuery(c.dataURL+"/customer", params), token, &env); err != nil {
		return nil, domain.Pagination{}, err
	}
	items := env.Items
	if items == nil {
		items = []domain.Customer{}
	}
	return items, env.pagination(50), nil
}

func (c *Client) GetCustomer(ctx context.Context, token, id string) (domain.Customer, error) {
	var customer domain.Customer
	err := c.getJSON(ctx, c.dataURL+"/customer/"+url.PathEscape(id), token, &customer)
	return customer, err
}

func (c *Client) CustomerMetrics(ctx context.Context, token string) (domain.CustomerMetrics, error) {
	var metrics domain.CustomerMetrics
	err := c.getJSON(ctx, c.dataURL+"/customer/metrics", token, &metrics)
	return metrics, err
}

func addParam(v url.Values, key, value string) {
	if value != "" {
		v.Set(key, value)
	}
}

func addIntParam(v url.Values, key string, value int) {
	if value > 0 {
		v.Set(key, strconv.Itoa(value))
	}
}
