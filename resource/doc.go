// Package resource provides a handle table that owns owned.Ptr values.
//
// A Table adopts single-owner handles and hands out small integer handles in
// exchange. The table becomes the sole owner of every adopted value until the
// value is taken back out or dropped.
//
// # Ownership Transfer
//
//	table := resource.NewTable[Conn]()
//	defer table.Close()
//
//	p := owned.New(conn)
//	h, err := table.Adopt(&p) // p is now empty
//
//	c, ok := table.Get(h)     // observe, table keeps ownership
//
//	q, err := table.Take(h)   // q owns the value again, h is freed
//	defer q.Drop()
//
//	err = table.Drop(h)       // or destroy it in place
//
// Handle 0 is reserved and always invalid. Freed handles are reused.
//
// # Observers
//
// Register observers to track resource lifecycle events:
//
//	table.Subscribe(observer)
//
//	func (o *observer) OnResourceEvent(e resource.Event) {
//	    switch e.Type {
//	    case resource.EventAdopted:
//	    case resource.EventDropped:
//	    }
//	}
//
// # Memory Management
//
// Values left in a table are dropped by Clear or Close. Close is idempotent and
// rejects further adoption.
package resource
