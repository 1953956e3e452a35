package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"booking/portal/internal/models"
	"booking/portal/internal/payment"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func paymentCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "payment",
		Short: "Create payments and check their status",
	}
	cmd.PersistentFlags().String("path", a.cfg.PaymentPath, "Transport path (direct, backend)")
	cmd.AddCommand(paymentCreateCmd(a))
	cmd.AddCommand(paymentStatusCmd(a))
	return cmd
}

func paymentCreateCmd(a *app) *cobra.Command {
	var req models.PaymentRequest
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a payment and print the result",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := pathFlag(cmd)
			if err != nil {
				return err
			}
			if req.OrderID == "" {
				req.OrderID = uuid.NewString()
			}
			result := a.adapter().CreatePayment(context.Background(), req, path)
			if err := printJSON(cmd.OutOrStdout(), result); err != nil {
				return err
			}
			if !result.Success {
				return fmt.Errorf("payment failed: %s", result.Message)
			}
			return nil
		},
	}

	cmd.Flags().Float64Var(&req.Amount, "amount", 0, "Amount in major currency units")
	cmd.Flags().StringVar(&req.Currency, "currency", "AED", "Currency code")
	cmd.Flags().StringVar(&req.Description, "description", "", "Payment description")
	cmd.Flags().StringVar(&req.OrderID, "order-id", "", "Order id (generated when empty)")
	cmd.Flags().StringVar(&req.CustomerEmail, "email", "", "Customer email")
	cmd.Flags().StringVar(&req.CustomerPhone, "phone", "", "Customer phone")
	cmd.Flags().StringVar(&req.ReturnURL, "return-url", "", "Redirect after success")
	cmd.Flags().StringVar(&req.CancelURL, "cancel-url", "", "Redirect after cancel")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}

func paymentStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status [payment-id]",
		Short: "Print the status of a payment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := pathFlag(cmd)
			if err != nil {
				return err
			}
			status, ok := a.adapter().GetPaymentStatus(context.Background(), args[0], path)
			if !ok {
				return fmt.Errorf("status for %s unavailable", args[0])
			}
			return printJSON(cmd.OutOrStdout(), status)
		},
	}
}

func pathFlag(cmd *cobra.Command) (payment.Path, error) {
	raw, err := cmd.Flags().GetString("path")
	if err != nil {
		return "", err
	}
	path, ok := payment.ParsePath(raw)
	if !ok {
		return "", fmt.Errorf("unknown path %q (want direct or backend)", raw)
	}
	return path, nil
}

func printJSON(w io.Writer, value interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(value)
}
