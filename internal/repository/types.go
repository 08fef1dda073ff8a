package repository

// ProductListFilter 查询商品列表的过滤条件
type ProductListFilter struct {
	Page        int
	PageSize    int
	Category    string
	Search      string
	ExcludeIDs  []string
	OnlyInStock bool
}

// CouponListFilter 优惠券列表筛选
type CouponListFilter struct {
	Code      string
	IsActive  *bool
	OnlyValid bool
	Page      int
	PageSize  int
}
