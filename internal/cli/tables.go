package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/roach88/smartfarm/internal/domain"
	"github.com/roach88/smartfarm/internal/format"
)

func writeTable(w io.Writer, header []string, rows [][]string) error {
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	for _, row := range rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return tw.Flush()
}

func formatID(n int64) string {
	return strconv.FormatInt(n, 10)
}

func quantity(q float64) string {
	return strconv.FormatFloat(q, 'f', -1, 64)
}

func farmerLocation(p *domain.FarmerProfile) string {
	if p == nil || (p.District == "" && p.State == "") {
		return "-"
	}
	if p.District == "" || p.State == "" {
		return p.District + p.State
	}
	return p.District + ", " + p.State
}

func writeCrops(w io.Writer, crops []domain.Crop, empty string) error {
	if len(crops) == 0 {
		_, err := fmt.Fprintln(w, empty)
		return err
	}
	rows := make([][]string, 0, len(crops))
	for _, c := range crops {
		rows = append(rows, []string{
			formatID(c.ID),
			c.CropName,
			quantity(c.Quantity),
			format.Currency(c.PricePerUnit),
			format.Date(c.HarvestDate),
			string(c.Status),
			farmerLocation(c.Farmer),
		})
	}
	return writeTable(w, []string{"ID", "CROP", "QTY", "PRICE/UNIT", "HARVEST", "STATUS", "FARM"}, rows)
}

func cropName(c *domain.Crop) string {
	if c == nil {
		return "-"
	}
	return c.CropName
}

func writeOrders(w io.Writer, orders []domain.Order) error {
	if len(orders) == 0 {
		_, err := fmt.Fprintln(w, "No orders yet")
		return err
	}
	rows := make([][]string, 0, len(orders))
	for _, o := range orders {
		rows = append(rows, []string{
			formatID(o.ID),
			cropName(o.Crop),
			quantity(o.Quantity),
			format.Currency(o.TotalAmount),
			o.Status,
			format.DateTime(o.CreatedAt),
		})
	}
	return writeTable(w, []string{"ID", "CROP", "QTY", "TOTAL", "STATUS", "PLACED"}, rows)
}

func writeUsers(w io.Writer, users []domain.User) error {
	if len(users) == 0 {
		_, err := fmt.Fprintln(w, "No users")
		return err
	}
	rows := make([][]string, 0, len(users))
	for _, u := range users {
		rows = append(rows, []string{
			formatID(u.ID),
			u.Name,
			u.MobileNumber,
			u.Email,
			strings.Join(domain.ParseRoles(u.Roles), ","),
		})
	}
	return writeTable(w, []string{"ID", "NAME", "MOBILE", "EMAIL", "ROLES"}, rows)
}
