package referral_test

import (
	"fmt"

	"github.com/refnetlabs/refnet/pkg/referral"
)

// Example demonstrates building a small referral network and ranking its
// members by transitive reach.
func Example() {
	g := referral.New()
	for _, u := range []string{"ana", "bea", "carl", "dana", "eli"} {
		g.Register(u)
	}

	g.Connect("ana", "bea")
	g.Connect("ana", "carl")
	g.Connect("bea", "dana")
	g.Connect("carl", "eli")

	for _, r := range g.TopK(3) {
		fmt.Printf("%s: %d\n", r.User, r.Reach)
	}
	// Output:
	// ana: 4
	// bea: 1
	// carl: 1
}

// ExampleGraph_Connect shows the difference between precondition errors and
// business rejections.
func ExampleGraph_Connect() {
	g := referral.New()
	g.Register("ana")
	g.Register("bea")

	ok, _ := g.Connect("ana", "bea")
	fmt.Println("first referral:", ok)

	// bea already has a referrer - rejected, not an error.
	ok, _ = g.Connect("bea", "bea")
	fmt.Println("self referral:", ok)

	_, err := g.Connect("ana", "carl")
	fmt.Println("unregistered:", err)
	// Output:
	// first referral: true
	// self referral: false
	// unregistered: unknown user
}
