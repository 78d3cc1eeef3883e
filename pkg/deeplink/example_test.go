package deeplink_test

import (
	"fmt"

	"github.com/bft-labs/deeplink/pkg/deeplink"
)

type route struct {
	Tab     string
	Message string
}

// Example shows a tab screen that partially handles a link and a detail
// screen that mounts later and finishes it through replay.
func Example() {
	d := deeplink.New[route]()

	d.Register(func(r route) deeplink.Result {
		if r.Tab != "inbox" {
			return deeplink.NotHandled
		}
		fmt.Println("tabs: switched to", r.Tab)
		return deeplink.PartiallyHandled
	})

	d.Dispatch(route{Tab: "inbox", Message: "42"})
	_, pending := d.Pending()
	fmt.Println("pending:", pending)

	release := d.RegisterScoped(func(r route) deeplink.Result {
		fmt.Println("inbox: opened message", r.Message)
		return deeplink.FullyHandled
	})
	defer release()

	_, pending = d.Pending()
	fmt.Println("pending:", pending)

	// Output:
	// tabs: switched to inbox
	// pending: true
	// inbox: opened message 42
	// pending: false
}
