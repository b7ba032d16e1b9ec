package main

import (
	"context"

	"github.com/angelmondragon/delivery-admin/internal/areas"
	"github.com/angelmondragon/delivery-admin/internal/form"
	"github.com/angelmondragon/delivery-admin/internal/places"
	"github.com/angelmondragon/delivery-admin/internal/stores"
	"github.com/angelmondragon/delivery-admin/internal/storetypes"
	"github.com/spf13/cobra"
)

var areaFields = []field[areas.Form]{
	textField("name", "name", "area name", func(f *areas.Form) *string { return &f.Name }),
	textField("code", "area_code", "area code", func(f *areas.Form) *string { return &f.AreaCode }),
	textField("description", "description", "description", func(f *areas.Form) *string { return &f.Description }),
	numberField("price", "price", "delivery price", func(f *areas.Form) **float64 { return &f.Price }),
	idField("place", "place_id", "place id", func(f *areas.Form) *int64 { return &f.PlaceID }),
}

func (a *app) areaCommands() []*cobra.Command {
	screen := func() *areas.Screen { return areas.NewScreen(a.areas, a.places, a.runner) }

	var placeID int64
	list := action("list", "List areas", func(cmd *cobra.Command) error {
		ctx := cmd.Context()
		if placeID > 0 {
			found, err := a.areas.ListByPlace(ctx, placeID)
			if err != nil {
				return err
			}
			return printTable(a.out, areaTable(found, func(ar areas.Area) string {
				if ar.Place == nil {
					return ""
				}
				return ar.Place.Name
			}))
		}
		s := screen()
		defer s.Close()
		if err := s.Mount(ctx); err != nil {
			return err
		}
		return printTable(a.out, areaTable(s.Items(), s.PlaceName))
	})
	list.Flags().Int64Var(&placeID, "place", 0, "only areas of this place")

	create := action("create", "Create an area", func(cmd *cobra.Command) error {
		s := screen()
		s.OpenCreate()
		if err := applyFields(cmd.Flags(), s.Create.Session(), areaFields); err != nil {
			return err
		}
		return s.SubmitCreate(cmd.Context())
	})
	bindFields(create.Flags(), areaFields)

	update := byID("update", "Update an area, keeping fields not given", func(cmd *cobra.Command, id int64) error {
		ctx := cmd.Context()
		area, err := a.areas.Get(ctx, id)
		if err != nil {
			return err
		}
		s := screen()
		if err := s.OpenEdit(*area); err != nil {
			return err
		}
		if err := applyFields(cmd.Flags(), s.Edit.Session(), areaFields); err != nil {
			return err
		}
		return s.SubmitEdit(ctx)
	})
	bindFields(update.Flags(), areaFields)

	return []*cobra.Command{
		list,
		byID("get", "Show one area", func(cmd *cobra.Command, id int64) error {
			area, err := a.areas.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			return printRecord(a.out, areaRecord(*area))
		}),
		create,
		update,
		byID("delete", "Delete an area", func(cmd *cobra.Command, id int64) error {
			return screen().Delete(cmd.Context(), id)
		}),
		a.exporter("areas.xlsx", func(ctx context.Context, path string) error {
			s := screen()
			defer s.Close()
			if err := s.Mount(ctx); err != nil {
				return err
			}
			return writeWorkbook(path, areaTable(s.Items(), s.PlaceName))
		}),
	}
}

var placeFields = []field[places.Form]{
	textField("name", "name", "place name", func(f *places.Form) *string { return &f.Name }),
	textField("address", "address", "address", func(f *places.Form) *string { return &f.Address }),
	numberField("lat", "latitude", "latitude, -90 to 90", func(f *places.Form) **float64 { return &f.Latitude }),
	numberField("lng", "longitude", "longitude, -180 to 180", func(f *places.Form) **float64 { return &f.Longitude }),
	idsField("types", "store_type_ids", "comma separated store type ids", func(f *places.Form) *[]int64 { return &f.StoreTypeIDs }),
}

func (a *app) placeCommands() []*cobra.Command {
	screen := func() *places.Screen { return places.NewScreen(a.places, a.storeTypes, a.runner) }

	var query string
	list := action("list", "List places", func(cmd *cobra.Command) error {
		s := screen()
		defer s.Close()
		if err := s.Mount(cmd.Context()); err != nil {
			return err
		}
		return printTable(a.out, placeTable(s.Items(query)))
	})
	list.Flags().StringVarP(&query, "query", "q", "", "filter by name or address")

	create := action("create", "Create a place", func(cmd *cobra.Command) error {
		s := screen()
		s.OpenCreate()
		if err := applyFields(cmd.Flags(), s.Create.Session(), placeFields); err != nil {
			return err
		}
		return s.SubmitCreate(cmd.Context())
	})
	bindFields(create.Flags(), placeFields)

	update := byID("update", "Update a place, keeping fields not given", func(cmd *cobra.Command, id int64) error {
		ctx := cmd.Context()
		place, err := a.places.Get(ctx, id)
		if err != nil {
			return err
		}
		s := screen()
		if err := s.OpenEdit(*place); err != nil {
			return err
		}
		if err := applyFields(cmd.Flags(), s.Edit.Session(), placeFields); err != nil {
			return err
		}
		return s.SubmitEdit(ctx)
	})
	bindFields(update.Flags(), placeFields)

	return []*cobra.Command{
		list,
		byID("get", "Show one place", func(cmd *cobra.Command, id int64) error {
			place, err := a.places.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			return printRecord(a.out, placeRecord(*place))
		}),
		create,
		update,
		byID("delete", "Delete a place", func(cmd *cobra.Command, id int64) error {
			return screen().Delete(cmd.Context(), id)
		}),
		a.exporter("places.xlsx", func(ctx context.Context, path string) error {
			s := screen()
			defer s.Close()
			if err := s.Mount(ctx); err != nil {
				return err
			}
			return writeWorkbook(path, placeTable(s.Items("")))
		}),
	}
}

var storeTypeFields = []field[storetypes.Form]{
	textField("name-ar", "name_ar", "arabic name", func(f *storetypes.Form) *string { return &f.NameAr }),
	textField("name-en", "name_en", "english name", func(f *storetypes.Form) *string { return &f.NameEn }),
	textField("desc-ar", "description_ar", "arabic description", func(f *storetypes.Form) *string { return &f.DescriptionAr }),
	textField("desc-en", "description_en", "english description", func(f *storetypes.Form) *string { return &f.DescriptionEn }),
	fileField("image", "image", "path to the image", func(f *storetypes.Form) *form.FileField { return &f.Image }),
}

func (a *app) storeTypeCommands() []*cobra.Command {
	screen := func() *storetypes.Screen { return storetypes.NewScreen(a.storeTypes, a.runner) }

	create := action("create", "Create a store type", func(cmd *cobra.Command) error {
		s := screen()
		s.OpenCreate()
		if err := applyFields(cmd.Flags(), s.Create.Session(), storeTypeFields); err != nil {
			return err
		}
		return s.SubmitCreate(cmd.Context())
	})
	bindFields(create.Flags(), storeTypeFields)

	update := byID("update", "Update a store type, keeping fields not given", func(cmd *cobra.Command, id int64) error {
		ctx := cmd.Context()
		st, err := a.storeTypes.Get(ctx, id)
		if err != nil {
			return err
		}
		s := screen()
		if err := s.OpenEdit(*st); err != nil {
			return err
		}
		if err := applyFields(cmd.Flags(), s.Edit.Session(), storeTypeFields); err != nil {
			return err
		}
		return s.SubmitEdit(ctx)
	})
	bindFields(update.Flags(), storeTypeFields)

	return []*cobra.Command{
		action("list", "List store types", func(cmd *cobra.Command) error {
			s := screen()
			defer s.Close()
			if err := s.Mount(cmd.Context()); err != nil {
				return err
			}
			return printTable(a.out, storeTypeTable(s.Items()))
		}),
		byID("get", "Show one store type", func(cmd *cobra.Command, id int64) error {
			st, err := a.storeTypes.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			return printRecord(a.out, storeTypeRecord(*st))
		}),
		create,
		update,
		byID("delete", "Delete a store type", func(cmd *cobra.Command, id int64) error {
			return screen().Delete(cmd.Context(), id)
		}),
		a.exporter("store-types.xlsx", func(ctx context.Context, path string) error {
			s := screen()
			defer s.Close()
			if err := s.Mount(ctx); err != nil {
				return err
			}
			return writeWorkbook(path, storeTypeTable(s.Items()))
		}),
	}
}

var storeFields = []field[stores.Form]{
	textField("name", "name", "store name", func(f *stores.Form) *string { return &f.Name }),
	idField("place", "place_id", "place id", func(f *stores.Form) *int64 { return &f.PlaceID }),
	idField("type", "store_type_id", "store type id", func(f *stores.Form) *int64 { return &f.StoreTypeID }),
	textField("phone", "phone", "phone number", func(f *stores.Form) *string { return &f.Phone }),
	textField("address", "address", "address", func(f *stores.Form) *string { return &f.Address }),
	textField("opens", "start_time", "opening time, e.g. 09:00", func(f *stores.Form) *string { return &f.StartTime }),
	textField("closes", "end_time", "closing time, e.g. 23:00", func(f *stores.Form) *string { return &f.EndTime }),
	fileField("logo", "logo", "path to the logo image", func(f *stores.Form) *form.FileField { return &f.Logo }),
	fileField("banner", "banner", "path to the banner image", func(f *stores.Form) *form.FileField { return &f.Banner }),
}

func (a *app) storeCommands() []*cobra.Command {
	screen := func() *stores.Screen { return stores.NewScreen(a.stores, a.places, a.storeTypes, a.runner) }

	toggle := func(use, short string, run func(*stores.Screen, context.Context, int64) error) *cobra.Command {
		return byID(use, short, func(cmd *cobra.Command, id int64) error {
			return run(screen(), cmd.Context(), id)
		})
	}

	var typeID int64
	list := action("list", "List stores", func(cmd *cobra.Command) error {
		ctx := cmd.Context()
		if typeID > 0 {
			found, err := a.stores.ListByType(ctx, typeID)
			if err != nil {
				return err
			}
			return printTable(a.out, storeTable(found))
		}
		s := screen()
		defer s.Close()
		if err := s.Mount(ctx); err != nil {
			return err
		}
		return printTable(a.out, storeTable(s.Items()))
	})
	list.Flags().Int64Var(&typeID, "type", 0, "only stores of this store type")

	create := action("create", "Create a store", func(cmd *cobra.Command) error {
		s := screen()
		s.OpenCreate()
		if err := applyFields(cmd.Flags(), s.Create.Session(), storeFields); err != nil {
			return err
		}
		return s.SubmitCreate(cmd.Context())
	})
	bindFields(create.Flags(), storeFields)

	update := byID("update", "Update a store, keeping fields not given", func(cmd *cobra.Command, id int64) error {
		ctx := cmd.Context()
		store, err := a.stores.Get(ctx, id)
		if err != nil {
			return err
		}
		s := screen()
		if err := s.OpenEdit(*store); err != nil {
			return err
		}
		if err := applyFields(cmd.Flags(), s.Edit.Session(), storeFields); err != nil {
			return err
		}
		return s.SubmitEdit(ctx)
	})
	bindFields(update.Flags(), storeFields)

	return []*cobra.Command{
		list,
		byID("get", "Show one store", func(cmd *cobra.Command, id int64) error {
			store, err := a.stores.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			return printRecord(a.out, storeRecord(*store))
		}),
		create,
		update,
		byID("delete", "Delete a store", func(cmd *cobra.Command, id int64) error {
			return screen().Delete(cmd.Context(), id)
		}),
		toggle("toggle-status", "Activate or deactivate a store", (*stores.Screen).ToggleStatus),
		toggle("verify", "Flip the verified badge of a store", (*stores.Screen).Verify),
		toggle("feature", "Flip the featured flag of a store", (*stores.Screen).ToggleFeatured),
		a.exporter("stores.xlsx", func(ctx context.Context, path string) error {
			s := screen()
			defer s.Close()
			if err := s.Mount(ctx); err != nil {
				return err
			}
			return writeWorkbook(path, storeTable(s.Items()))
		}),
	}
}
