package views

import (
	"context"

	"storefront/pkg/api"
)

// ListingPage is the home and /category/:slug view model. Err is set
// together with StateError; Retry re-runs the failed fetch.
type ListingPage struct {
	State        State
	CategorySlug string
	Categories   []api.Category
	Products     []api.Product
	Page         int
	TotalCount   int
	HasNext      bool
	HasPrevious  bool
	Err          string
}

// CatalogClient is the browse slice of api.Client.
type CatalogClient interface {
	ListCategories(ctx context.Context, page int) (*api.Page[api.Category], error)
	ListProducts(ctx context.Context, category string, page int) (*api.Page[api.Product], error)
}

// ListingController drives the browse screens. The slug "all" means
// no category filter, matching the /category/all route.
type ListingController struct {
	client CatalogClient

	page ListingPage
}

func NewListingController(client CatalogClient) *ListingController {
	return &ListingController{client: client, page: ListingPage{State: StateLoading}}
}

func (c *ListingController) Page() ListingPage {
	return c.page
}

// Load fetches the category list and the requested product page. A
// category fetch failure is tolerated (navigation just renders empty);
// a product fetch failure is the page-level error state.
func (c *ListingController) Load(ctx context.Context, categorySlug string, pageNum int) {
	if pageNum < 1 {
		pageNum = 1
	}
	c.page = ListingPage{State: StateLoading, CategorySlug: categorySlug, Page: pageNum}

	categories, err := c.client.ListCategories(ctx, 1)
	if err == nil {
		c.page.Categories = categories.Results
	}

	filter := categorySlug
	if filter == "all" {
		filter = ""
	}
	products, err := c.client.ListProducts(ctx, filter, pageNum)
	if err != nil {
		c.page.State = StateError
		c.page.Err = "Failed to load products"
		return
	}

	c.page.Products = products.Results
	c.page.TotalCount = products.Count
	c.page.HasNext = products.Next != nil
	c.page.HasPrevious = products.Previous != nil
	if len(products.Results) == 0 {
		c.page.State = StateEmpty
	} else {
		c.page.State = StateReady
	}
}

// Retry re-runs the last Load with the same slug and page.
func (c *ListingController) Retry(ctx context.Context) {
	c.Load(ctx, c.page.CategorySlug, c.page.Page)
}
