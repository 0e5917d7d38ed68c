// Package osintinfo is a Go client for breach lookups and the result
// normalization used by the osintinfo web front end.
//
// Upstream answers come in many shapes: a JSON object keyed by database
// name, a list of rows, a bare string. The client flattens all of them into
// display records with human labels, drops noise keys and empty values, and
// renders the outcome as a plain-text or markdown export.
//
// # Normalizing a saved answer
//
//	client, _ := osintinfo.New()
//	res, err := client.Normalize(body)
//	fmt.Println(res.RecordCount, res.FieldCount)
//	fmt.Println(client.Text("john@example.com", res))
//
// # Live lookups
//
//	client, _ := osintinfo.New(
//	    osintinfo.WithAPIKey(os.Getenv("LEAKOSINT_API_KEY")),
//	    osintinfo.WithTimeout(20*time.Second),
//	)
//	out, err := client.Search(ctx, "john@example.com", osintinfo.WithLimit(50))
//	if errors.Is(err, osintinfo.ErrProviderTimeout) { ... }
package osintinfo
