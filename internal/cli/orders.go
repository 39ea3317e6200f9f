package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/smartfarm/internal/domain"
	"github.com/roach88/smartfarm/internal/format"
	"github.com/roach88/smartfarm/internal/navigation"
)

func newOrdersCommand(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "orders",
		Short: "Place and track orders",
	}

	var req domain.OrderCreateRequest
	place := &cobra.Command{
		Use:   "place",
		Short: "Order an approved crop from the marketplace",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := domain.Validate(req); err != nil {
				return err
			}
			ctx := cmd.Context()
			a, err := rt.screen(ctx, navigation.ScreenCropDetailBuyer)
			if err != nil {
				return err
			}
			order, err := a.Orders.PlaceOrder(ctx, req)
			if err != nil {
				return WrapExitError(ExitFailure, "Could not place the order", err)
			}
			return rt.out.Render(order, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "Order %d placed: %s x %s, total %s (%s)\n",
					order.ID, quantity(order.Quantity), cropName(order.Crop),
					format.Currency(order.TotalAmount), order.Status)
				return err
			})
		},
	}
	place.Flags().Int64Var(&req.CropID, "crop", 0, "crop id from the marketplace")
	place.Flags().Float64Var(&req.Quantity, "quantity", 0, "quantity to order")

	mine := &cobra.Command{
		Use:   "mine",
		Short: "List your orders",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := rt.screen(ctx, navigation.ScreenMyOrders)
			if err != nil {
				return err
			}
			orders, err := a.Orders.GetMyOrders(ctx)
			if err != nil {
				return WrapExitError(ExitFailure, "Could not load your orders", err)
			}
			return rt.out.Render(orders, func(w io.Writer) error {
				return writeOrders(w, orders)
			})
		},
	}

	cmd.AddCommand(place, mine)
	return cmd
}
