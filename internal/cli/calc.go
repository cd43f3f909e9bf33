package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/xtding233/ba-companion/internal/calc"
)

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newBondCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bond",
		Short: "Bond EXP between two ranks, per-source amounts and a time estimate",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := cmd.Flags()
			from, _ := f.GetInt("from")
			to, _ := f.GetInt("to")
			orderFlag, _ := f.GetString("order")
			asJSON, _ := f.GetBool("json")

			pace := a.pace()
			if f.Changed("pats") {
				pace.PatsPerDay, _ = f.GetInt("pats")
			}
			if f.Changed("gifts") {
				pace.GiftsPerMonth, _ = f.GetInt("gifts")
			}
			order, err := calc.ParseSortOrder(orderFlag)
			if err != nil {
				return err
			}

			c, err := a.calculator()
			if err != nil {
				return err
			}
			rep, err := c.BondReport(from, to, pace, order)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				return printJSON(out, rep)
			}
			fmt.Fprintf(out, "Bond %d -> %d: %d EXP\n\n", rep.From, rep.To, rep.TotalExp)
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "SOURCE\tEXP\tNEEDED")
			for _, r := range rep.Rows {
				fmt.Fprintf(tw, "%s\t%d\t%d\n", r.Name, r.Exp, r.Amount)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(out, "\n%d pats/day, %d gifts/month: %d EXP/month, ", pace.PatsPerDay, pace.GiftsPerMonth, rep.Estimate.MonthlyGain)
			if rep.Estimate.LessThanMonth {
				fmt.Fprintln(out, "less than a month")
			} else {
				fmt.Fprintf(out, "about %d months\n", rep.Estimate.Months)
			}
			return nil
		},
	}
	cmd.Flags().Int("from", 1, "Current bond rank")
	cmd.Flags().Int("to", 20, "Target bond rank")
	cmd.Flags().Int("pats", calc.DefaultBondPace.PatsPerDay, "Cafe headpats per day (default from config)")
	cmd.Flags().Int("gifts", calc.DefaultBondPace.GiftsPerMonth, "Gifts per month (default from config)")
	cmd.Flags().String("order", "desc", "Sort sources by EXP: asc or desc")
	cmd.Flags().Bool("json", false, "Print JSON")
	return cmd
}

func newCharaCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chara",
		Short: "Character EXP, activity reports and credits between two levels",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := cmd.Flags()
			var req calc.CharacterRequest
			req.FromLevel, _ = f.GetInt("from")
			req.ToLevel, _ = f.GetInt("to")
			req.Credits, _ = f.GetInt("credits")
			asJSON, _ := f.GetBool("json")

			req.Inventory = calc.Inventory{}
			for _, key := range []string{calc.BookPink, calc.BookOrange, calc.BookBlue, calc.BookGrey} {
				n, _ := f.GetInt(key)
				req.Inventory[key] = n
			}

			c, err := a.calculator()
			if err != nil {
				return err
			}
			res, err := c.CharacterExpPlan(req)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				return printJSON(out, res)
			}
			fmt.Fprintf(out, "Level %d -> %d: %d EXP\n", req.FromLevel, req.ToLevel, res.TotalExp)
			if res.AvailableExp > 0 {
				fmt.Fprintf(out, "Inventory covers %d EXP, %d still needed\n", res.AvailableExp, res.ExpNeededAfterInventory)
			}
			fmt.Fprintln(out)
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "REPORT\tEXP\tCOUNT")
			for _, b := range res.Books {
				fmt.Fprintf(tw, "%s\t%d\t%d\n", b.Name, b.Value, b.Count)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(out, "\nCredits needed: %d\n", res.CreditsNeeded)
			return nil
		},
	}
	cmd.Flags().Int("from", 1, "Current level")
	cmd.Flags().Int("to", 90, "Target level")
	cmd.Flags().Int(calc.BookPink, 0, "Owned superior activity reports")
	cmd.Flags().Int(calc.BookOrange, 0, "Owned advanced activity reports")
	cmd.Flags().Int(calc.BookBlue, 0, "Owned normal activity reports")
	cmd.Flags().Int(calc.BookGrey, 0, "Owned novice activity reports")
	cmd.Flags().Int("credits", 0, "Owned credits")
	cmd.Flags().Bool("json", false, "Print JSON")
	return cmd
}

func newPromoCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "promo",
		Short: "Fragments, Eligma and credits to raise a student's star rarity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := cmd.Flags()
			var req calc.PromotionRequest
			req.FromRarity, _ = f.GetInt("from")
			req.ToRarity, _ = f.GetInt("to")
			req.OwnedFragments, _ = f.GetInt("owned")
			req.WeaponRank, _ = f.GetInt("weapon")
			asJSON, _ := f.GetBool("json")

			c, err := a.calculator()
			if err != nil {
				return err
			}
			res, err := c.PromotionPlan(req)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				return printJSON(out, res)
			}
			fmt.Fprintf(out, "Rarity %d -> %d\n", req.FromRarity, req.ToRarity)
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintf(tw, "Fragments required\t%d\n", res.TotalFragments)
			if res.WeaponUpgradeFragments > 0 {
				fmt.Fprintf(tw, "  of which weapon\t%d\n", res.WeaponUpgradeFragments)
			}
			fmt.Fprintf(tw, "Fragments needed\t%d\n", res.NeededFragments)
			fmt.Fprintf(tw, "Eligma\t%d\n", res.TotalEligma)
			fmt.Fprintf(tw, "Credits\t%d\n", res.TotalCost)
			return tw.Flush()
		},
	}
	cmd.Flags().Int("from", 1, "Current star rarity")
	cmd.Flags().Int("to", 5, "Target star rarity")
	cmd.Flags().Int("owned", 0, "Fragments already owned")
	cmd.Flags().Int("weapon", 0, "Unique weapon ranks to unlock (only at 5 stars)")
	cmd.Flags().Bool("json", false, "Print JSON")
	return cmd
}
