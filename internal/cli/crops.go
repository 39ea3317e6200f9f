package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/roach88/smartfarm/internal/domain"
	"github.com/roach88/smartfarm/internal/format"
	"github.com/roach88/smartfarm/internal/navigation"
)

func newCropsCommand(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crops",
		Short: "List, add, and get recommendations for crops",
	}
	cmd.AddCommand(newCropsAddCommand(rt))
	cmd.AddCommand(newCropsMineCommand(rt))
	cmd.AddCommand(newCropsMarketCommand(rt))
	cmd.AddCommand(newCropsRecommendCommand(rt))
	return cmd
}

type addCropView struct {
	Crop     *domain.Crop `json:"crop"`
	ImageURL string       `json:"imageUrl,omitempty"`
}

func newCropsAddCommand(rt *runtime) *cobra.Command {
	var (
		req   domain.CropCreateRequest
		image string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "List a crop for sale; it stays pending until an admin approves it",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := domain.Validate(req); err != nil {
				return err
			}
			var img *os.File
			if image != "" {
				f, err := os.Open(image)
				if err != nil {
					return WrapExitError(ExitCommandError, "Could not read the image file", err)
				}
				defer f.Close()
				img = f
			}

			ctx := cmd.Context()
			a, err := rt.screen(ctx, navigation.ScreenAddCrop)
			if err != nil {
				return err
			}
			crop, err := a.Crops.CreateCrop(ctx, req)
			if err != nil {
				return WrapExitError(ExitFailure, "Could not add the crop", err)
			}

			v := addCropView{Crop: crop}
			if img != nil {
				resp, err := a.Crops.UploadCropImage(ctx, crop.ID, img)
				if err != nil {
					return WrapExitError(ExitFailure,
						fmt.Sprintf("Crop %d was added but the image upload failed", crop.ID), err)
				}
				var body struct {
					ImageURL string `json:"imageUrl"`
				}
				if jsonErr := json.Unmarshal(resp, &body); jsonErr == nil {
					v.ImageURL = body.ImageURL
				}
			}

			return rt.out.Render(v, func(w io.Writer) error {
				fmt.Fprintf(w, "Crop %d added: %s, %s at %s per unit\n",
					crop.ID, crop.CropName, quantity(crop.Quantity), format.Currency(crop.PricePerUnit))
				if v.ImageURL != "" {
					fmt.Fprintf(w, "Image: %s\n", v.ImageURL)
				}
				_, err := fmt.Fprintf(w, "Status: %s (awaiting admin approval)\n", crop.Status)
				return err
			})
		},
	}

	cmd.Flags().StringVar(&req.CropName, "name", "", "crop name")
	cmd.Flags().Float64Var(&req.Quantity, "quantity", 0, "quantity available")
	cmd.Flags().Float64Var(&req.PricePerUnit, "price", 0, "price per unit in rupees")
	cmd.Flags().StringVar(&req.HarvestDate, "harvest-date", "", "harvest date, YYYY-MM-DD")
	cmd.Flags().StringVar(&image, "image", "", "path to a JPEG photo of the crop")

	return cmd
}

func newCropsMineCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "mine",
		Short: "List the crops you have listed",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := rt.screen(ctx, navigation.ScreenMyCrops)
			if err != nil {
				return err
			}
			crops, err := a.Crops.GetMyCrops(ctx)
			if err != nil {
				return WrapExitError(ExitFailure, "Could not load your crops", err)
			}
			return rt.out.Render(crops, func(w io.Writer) error {
				return writeCrops(w, crops, "You have not listed any crops yet")
			})
		},
	}
}

func newCropsMarketCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "market",
		Short: "Browse approved crops",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := rt.screen(ctx, navigation.ScreenMarketplace)
			if err != nil {
				return err
			}
			crops, err := a.Crops.GetApprovedCrops(ctx)
			if err != nil {
				return WrapExitError(ExitFailure, "Could not load the marketplace", err)
			}
			return rt.out.Render(crops, func(w io.Writer) error {
				return writeCrops(w, crops, "No crops available right now")
			})
		},
	}
}

type recommendView struct {
	Recommendations []string       `json:"recommendations"`
	Extra           map[string]any `json:"extra,omitempty"`
}

func newCropsRecommendCommand(rt *runtime) *cobra.Command {
	var req domain.CropRecommendationRequest

	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Get crop recommendations for your district, soil, and season",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := domain.Validate(req); err != nil {
				return err
			}
			ctx := cmd.Context()
			a, err := rt.screen(ctx, navigation.ScreenCropRecommendation)
			if err != nil {
				return err
			}
			resp, err := a.Crops.GetCropRecommendation(ctx, req)
			if err != nil {
				return WrapExitError(ExitFailure, "Could not get recommendations", err)
			}

			v := recommendView{Recommendations: resp.Recommendations}
			if len(resp.Extra) > 0 {
				v.Extra = make(map[string]any, len(resp.Extra))
				for k, raw := range resp.Extra {
					var val any
					if json.Unmarshal(raw, &val) == nil {
						v.Extra[k] = val
					}
				}
			}

			return rt.out.Render(v, func(w io.Writer) error {
				if len(v.Recommendations) == 0 {
					_, err := fmt.Fprintln(w, "No recommendations for these conditions")
					return err
				}
				fmt.Fprintln(w, "Recommended crops:")
				for _, r := range v.Recommendations {
					fmt.Fprintf(w, "  - %s\n", r)
				}
				keys := make([]string, 0, len(v.Extra))
				for k := range v.Extra {
					keys = append(keys, k)
				}
				sort.Strings(keys)
				for _, k := range keys {
					fmt.Fprintf(w, "%s: %v\n", k, v.Extra[k])
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&req.District, "district", "", "district")
	cmd.Flags().StringVar(&req.State, "state", "", "state")
	cmd.Flags().StringVar(&req.SoilType, "soil-type", "", "Sandy, Loamy, Clay, Silt, Peat or Chalky")
	cmd.Flags().StringVar(&req.Season, "season", "", "Kharif, Rabi or Zaid")

	return cmd
}
