package checkout

import (
	"fmt"
	"time"
)

// orderNumberPrefix brands every order reference shown to customers.
const orderNumberPrefix = "TAP-"

// orderNumber derives a unique order reference from a high-resolution
// timestamp. Uniqueness is additionally enforced by ux_orders_order_number.
func orderNumber(at time.Time) string {
	return fmt.Sprintf("%s%d", orderNumberPrefix, at.UnixNano())
}
