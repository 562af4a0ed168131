// package stripekit is a hand-written client for the Stripe API. It covers
// the core billing resources, Customers, PaymentMethods, Products, Prices,
// Subscriptions, Invoices, Charges, Refunds, PaymentIntents, and Checkout
// Sessions, along with webhook verification for the events Stripe emits
// about them.
//
// stripekit.Client is the main way to interact with the Stripe API. Each
// resource has package level functions that take a Client, for example,
//
//	client := stripekit.NewClient(os.Getenv("STRIPE_SECRET"))
//
//	c, err := stripekit.CreateCustomer(ctx, client, &stripekit.CustomerParams{
//	    Email: stripekit.String("me@example.com"),
//	})
//
//	if err != nil {
//	    panic(err) // Handle error properly.
//	}
//
//	sub, err := stripekit.CreateSubscription(ctx, client, &stripekit.SubscriptionParams{
//	    Customer: stripekit.String(c.ID),
//	    Items: []*stripekit.SubscriptionItemParams{
//	        {Price: stripekit.String("price_123456")},
//	    },
//	})
//
// responses are decoded strictly, a required field missing from a response is
// an error rather than a zero value, and fields Stripe may expand are
// modelled with Expandable so an ID and an inlined object both decode. List
// endpoints return an Iter which walks the collection a page at a time,
//
//	it := stripekit.ListCustomers(ctx, client, nil)
//
//	for it.Next() {
//	    c := it.Current()
//	    fmt.Println(c.ID)
//	}
//
//	if err := it.Err(); err != nil {
//	    panic(err) // Be more graceful when you do this.
//	}
//
// webhooks are verified with a Verifier, either directly via ConstructEvent,
// or by registering handlers on a HookHandler and mounting its HandlerFunc
// in the web server of your choosing. A Store can be given to the
// HookHandler to drop events Stripe delivers more than once.
package stripekit
