// Package nftstub provides an approval receiver test double together with the
// small execution platform it runs on.
//
// The receiver answers token approval notifications (nft_on_approve): the
// "return-now" message yields "cool" immediately, any other message is echoed
// back through a deferred call that the platform dispatches to the receiver's
// own echo method. The platform supplies caller identity, a gas meter per
// call and a queue backed dispatcher for deferred calls.
//
//	srv, _ := nftstub.New(nftstub.WithConfig(&nftstub.Config{
//		AccountID:      "receiver.near",
//		TokenAccountID: "nft.near",
//	}))
//	defer srv.Shutdown()
//	out, _ := srv.Invoke(ctx, "nft.near", "nft_on_approve", args, 300*gas.Tera)
package nftstub
