package promotion

// Type selects the reward calculation strategy.
type Type string

const (
	TypePercentage     Type = "PERCENTAGE"
	TypeFixed          Type = "FIXED"
	TypeBuyXGetY       Type = "BUY_X_GET_Y"
	TypeTieredDiscount Type = "TIERED_DISCOUNT"
	TypeFreeShipping   Type = "FREE_SHIPPING"
	TypeBundleDiscount Type = "BUNDLE_DISCOUNT"
)

// Target scopes which line items a promotion's reward is computed over.
type Target string

const (
	TargetAllProducts      Target = "ALL_PRODUCTS"
	TargetSpecificProducts Target = "SPECIFIC_PRODUCTS"
	TargetCategory         Target = "CATEGORY"
	TargetBrand            Target = "BRAND"
	TargetPriceRange       Target = "PRICE_RANGE"
	TargetCustomerSegment  Target = "CUSTOMER_SEGMENT"
)

// Trigger determines how a promotion enters the evaluation pool.
type Trigger string

const (
	TriggerAutoApply  Trigger = "AUTO_APPLY"
	TriggerManualCode Trigger = "MANUAL_CODE"
	TriggerCartValue  Trigger = "CART_VALUE"
)

// Operator is the comparison a Rule applies to its context field.
type Operator string

const (
	OpEq       Operator = "eq"
	OpNe       Operator = "ne"
	OpGt       Operator = "gt"
	OpGte      Operator = "gte"
	OpLt       Operator = "lt"
	OpLte      Operator = "lte"
	OpIn       Operator = "in"
	OpNin      Operator = "nin"
	OpContains Operator = "contains"
	OpBetween  Operator = "between"
)

// Field names a Rule can evaluate against the cart context.
type Field string

const (
	FieldCartTotal       Field = "cart_total"
	FieldItemCount       Field = "item_count"
	FieldCustomerSegment Field = "customer_segment"
	FieldDeviceType      Field = "device_type"
	FieldOrderCount      Field = "order_count"
	FieldTotalSpent      Field = "total_spent"
	FieldLoyaltyPoints   Field = "loyalty_points"
	FieldCategory        Field = "category"
	FieldBrand           Field = "brand"
)

// DiscountKind is the unit a tier's value is expressed in.
type DiscountKind string

const (
	DiscountKindPercentage DiscountKind = "PERCENTAGE"
	DiscountKindFixed      DiscountKind = "FIXED"
)

// SecondaryKind classifies the optional secondary reward.
type SecondaryKind string

const (
	SecondaryCashback      SecondaryKind = "CASHBACK"
	SecondaryLoyaltyPoints SecondaryKind = "LOYALTY_POINTS"
	SecondaryFreeProduct   SecondaryKind = "FREE_PRODUCT"
)
