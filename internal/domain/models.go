package domain

// Order es un pedido tal como lo expone la API V2 de Xano.
type Order struct {
	ID                FlexString `json:"id"`
	CreatedAt         int64      `json:"created_at,omitempty"`
	UpdatedAt         int64      `json:"updated_at,omitempty"`
	BusinessEntityID  FlexString `json:"business_entity_id,omitempty"`
	OrderNumber       string     `json:"order_number,omitempty"`
	OrderType         string     `json:"order_type,omitempty"`
	Status            string     `json:"status,omitempty"`
	Priority          string     `json:"priority,omitempty"`
	Amount            float64    `json:"amount,omitempty"`
	StatusName        string     `json:"status_name,omitempty"`
	StatusLabel       string     `json:"status_label,omitempty"`
	StatusSince       int64      `json:"status_since,omitempty"`
	StatusColor       string     `json:"status_color,omitempty"`
	CustomerName      string     `json:"customer_name,omitempty"`
	CustomerFirstName string     `json:"customer_first_name,omitempty"`
	CustomerLastName  string     `json:"customer_last_name,omitempty"`
	CustomerEmail     string     `json:"customer_email,omitempty"`
	CustomerPhone     string     `json:"customer_phone,omitempty"`
	BusinessEntity    string     `json:"business_entity,omitempty"`
	Account           string     `json:"account,omitempty"`
	InstallationDate  string     `json:"installation_date,omitempty"`
	PartnerName       string     `json:"partner_name,omitempty"`
	Reference         string     `json:"reference,omitempty"`
}

// StatusKey devuelve el valor que se usa para resolver el badge del pedido.
func (o Order) StatusKey() StatusCode {
	return StatusCode(firstNonEmpty(o.Status, o.StatusLabel, o.StatusName))
}

// OrderWithBadge es un pedido decorado con su badge de estado.
type OrderWithBadge struct {
	Order
	Badge StatusBadge `json:"badge"`
}

type OrderFilters struct {
	Search         string `form:"search"`
	BusinessEntity string `form:"business_entity"`
	OrderType      string `form:"order_type"`
	Status         string `form:"status"`
	Priority       string `form:"priority"`
	DateFrom       string `form:"date_from"`
	DateTo         string `form:"date_to"`
	Page           int    `form:"page"`
	PerPage        int    `form:"per_page"`
}

// Customer es un contacto (persona u organizacion) de la API V2.
type Customer struct {
	ID                     FlexString `json:"id"`
	ContactType            string     `json:"contact_type,omitempty"`
	ContactSubtype         string     `json:"contact_subtype,omitempty"`
	FirstName              string     `json:"first_name,omitempty"`
	LastName               string     `json:"last_name,omitempty"`
	Email                  string     `json:"email,omitempty"`
	Phone                  string     `json:"phone,omitempty"`
	DisplayName            string     `json:"display_name,omitempty"`
	ParentOrganizationID   FlexString `json:"parent_organization_id,omitempty"`
	ParentOrganizationName string     `json:"parent_organization_name,omitempty"`
	JobTitle               string     `json:"job_title,omitempty"`
	PreferredCommunication string     `json:"preferred_communication,omitempty"`
	IsActive               bool       `json:"is_active,omitempty"`
	TotalOrders            int        `json:"total_orders,omitempty"`
	TotalRevenue           float64    `json:"total_revenue,omitempty"`
	LastOrderDate          int64      `json:"last_order_date,omitempty"`
	Status                 string     `json:"status,omitempty"`
}

type CustomerFilters struct {
	Search                  string `form:"search"`
	ContactType             string `form:"contact_type"`
	ContactSubtype          string `form:"contact_subtype"`
	Status                  string `form:"status"`
	CommunicationPreference string `form:"communication_preference"`
	ParentOrganization      string `form:"parent_organization"`
	Page                    int    `form:"page"`
	PerPage                 int    `form:"per_page"`
}

type CustomerMetrics struct {
	TotalCustomers     int     `json:"total_customers"`
	TotalOrganizations int     `json:"total_organizations"`
	TotalPartners      int     `json:"total_partners"`
	ActiveCustomers    int     `json:"active_customers"`
	NewThisMonth       int     `json:"new_this_month"`
	RevenueThisMonth   float64 `json:"revenue_this_month"`
	CustomersChange    float64 `json:"customers_change"`
	RevenueChange      float64 `json:"revenue_change"`
}

// Pagination es la paginacion normalizada a partir del sobre de Xano.
type Pagination struct {
	CurrentPage  int  `json:"current_page"`
	TotalPages   int  `json:"total_pages"`
	PerPage      int  `json:"per_page"`
	TotalItems   int  `json:"total_items"`
	HasMoreItems bool `json:"has_more_items"`
}

type DashboardStats struct {
	TotalRevenue    float64 `json:"total_revenue"`
	ActiveOrders    int     `json:"active_orders"`
	CompletedOrders int     `json:"completed_orders"`
	PendingOrders   int     `json:"pending_orders"`
	RevenueChange   float64 `json:"revenue_change"`
	OrdersChange    float64 `json:"orders_change"`
}
