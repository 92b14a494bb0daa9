// Package client is a Go client for a running shard.
//
//	c := client.New("http://localhost:8080", nil)
//	err := c.Put(ctx, "color", "red")
//	v, err := c.Get(ctx, "color")      // errors.Is(err, client.ErrNotFound) when absent
//	h, err := c.Health(ctx)
//	m, err := c.Metrics(ctx)           // parsed from the text exposition
//
// Keys are path-escaped before they are sent. The shard stores the escaped
// form as-is, so a key written through this client must also be read through
// it (or escaped the same way).
package client
