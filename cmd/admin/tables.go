package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/angelmondragon/delivery-admin/internal/areas"
	"github.com/angelmondragon/delivery-admin/internal/places"
	"github.com/angelmondragon/delivery-admin/internal/profile"
	"github.com/angelmondragon/delivery-admin/internal/settings"
	"github.com/angelmondragon/delivery-admin/internal/stores"
	"github.com/angelmondragon/delivery-admin/internal/storetypes"
	"github.com/angelmondragon/delivery-admin/internal/users"
	"github.com/angelmondragon/delivery-admin/pkg/export"
	"github.com/olekukonko/tablewriter"
)

func printTable(w io.Writer, t export.Table) error {
	table := tablewriter.NewWriter(w)
	table.SetHeader(t.Headers)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	for _, row := range t.Rows {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = cell(v)
		}
		table.Append(cells)
	}
	table.Render()
	return nil
}

// printRecord renders one entity as aligned key/value lines.
func printRecord(w io.Writer, pairs [][2]string) error {
	table := tablewriter.NewWriter(w)
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)
	table.SetHeaderLine(false)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetTablePadding("  ")
	table.SetNoWhiteSpace(true)
	for _, p := range pairs {
		table.Append([]string{p[0] + ":", cell(p[1])})
	}
	table.Render()
	return nil
}

func cell(v any) string {
	switch x := v.(type) {
	case nil:
		return "-"
	case string:
		if x == "" {
			return "-"
		}
		return x
	case bool:
		if x {
			return "yes"
		}
		return "no"
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return fmt.Sprint(x)
	}
}

func writeWorkbook(path string, tables ...export.Table) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return export.WriteXLSX(f, tables...)
}

func areaTable(list []areas.Area, placeName func(areas.Area) string) export.Table {
	t := export.Table{
		Sheet:   "Areas",
		Headers: []string{"ID", "Name", "Code", "Price", "Place", "Description"},
	}
	for _, a := range list {
		t.Rows = append(t.Rows, []any{a.ID, a.Name, a.AreaCode, a.Price.InexactFloat64(), placeName(a), a.Description})
	}
	return t
}

func areaRecord(a areas.Area) [][2]string {
	place := ""
	if a.Place != nil {
		place = a.Place.Name
	}
	return [][2]string{
		{"ID", strconv.FormatInt(a.ID, 10)},
		{"Name", a.Name},
		{"Code", a.AreaCode},
		{"Price", a.Price.String()},
		{"Place", place},
		{"Description", a.Description},
		{"Created", a.CreatedAt},
		{"Updated", a.UpdatedAt},
	}
}

func placeTypeNames(p places.Place) string {
	names := make([]string, 0, len(p.StoreTypes))
	for _, link := range p.StoreTypes {
		if link.StoreType != nil && link.StoreType.NameEn != "" {
			names = append(names, link.StoreType.NameEn)
			continue
		}
		names = append(names, "#"+strconv.FormatInt(link.StoreTypeID, 10))
	}
	return strings.Join(names, ", ")
}

func placeTable(list []places.Place) export.Table {
	t := export.Table{
		Sheet:   "Places",
		Headers: []string{"ID", "Name", "Address", "Latitude", "Longitude", "Store types"},
	}
	for _, p := range list {
		t.Rows = append(t.Rows, []any{p.ID, p.Name, p.Address, p.Latitude.Float64(), p.Longitude.Float64(), placeTypeNames(p)})
	}
	return t
}

func placeRecord(p places.Place) [][2]string {
	return [][2]string{
		{"ID", strconv.FormatInt(p.ID, 10)},
		{"Name", p.Name},
		{"Address", p.Address},
		{"Latitude", cell(p.Latitude.Float64())},
		{"Longitude", cell(p.Longitude.Float64())},
		{"Store types", placeTypeNames(p)},
	}
}

func storeTypeTable(list []storetypes.StoreType) export.Table {
	t := export.Table{
		Sheet:   "Store types",
		Headers: []string{"ID", "Name (EN)", "Name (AR)", "Description (EN)", "Image"},
	}
	for _, st := range list {
		t.Rows = append(t.Rows, []any{st.ID, st.NameEn, st.NameAr, st.DescriptionEn, st.Image})
	}
	return t
}

func storeTypeRecord(st storetypes.StoreType) [][2]string {
	return [][2]string{
		{"ID", strconv.FormatInt(st.ID, 10)},
		{"Name (EN)", st.NameEn},
		{"Name (AR)", st.NameAr},
		{"Description (EN)", st.DescriptionEn},
		{"Description (AR)", st.DescriptionAr},
		{"Image", st.Image},
	}
}

func storeHours(s stores.Store) string {
	if s.StartTime == "" && s.EndTime == "" {
		return ""
	}
	return s.StartTime + "-" + s.EndTime
}

func storeTypeName(s stores.Store) string {
	if s.StoreType == nil {
		return ""
	}
	return s.StoreType.NameEn
}

func storePlaceName(s stores.Store) string {
	if s.Place == nil {
		return ""
	}
	return s.Place.Name
}

func storeTable(list []stores.Store) export.Table {
	t := export.Table{
		Sheet:   "Stores",
		Headers: []string{"ID", "Name", "Type", "Place", "Phone", "Hours", "Active", "Verified", "Featured"},
	}
	for _, s := range list {
		t.Rows = append(t.Rows, []any{
			s.ID, s.Name, storeTypeName(s), storePlaceName(s), s.Phone, storeHours(s),
			s.IsActive, s.IsVerified, s.IsFeatured,
		})
	}
	return t
}

func storeRecord(s stores.Store) [][2]string {
	owner, rating, delivery := "", "", ""
	if s.User != nil {
		owner = s.User.Name
	}
	if s.Rating != nil {
		rating = cell(s.Rating.Float64())
	}
	if s.DeliveryTime != nil {
		delivery = strconv.FormatInt(*s.DeliveryTime, 10) + " min"
	}
	return [][2]string{
		{"ID", strconv.FormatInt(s.ID, 10)},
		{"Name", s.Name},
		{"Type", storeTypeName(s)},
		{"Place", storePlaceName(s)},
		{"Owner", owner},
		{"Phone", s.Phone},
		{"Address", s.Address},
		{"Hours", storeHours(s)},
		{"Delivery time", delivery},
		{"Rating", rating},
		{"Active", cell(s.IsActive)},
		{"Verified", cell(s.IsVerified)},
		{"Featured", cell(s.IsFeatured)},
		{"Logo", s.Logo},
		{"Banner", s.Banner},
	}
}

func userTable(list []users.User) export.Table {
	t := export.Table{
		Sheet:   "Users",
		Headers: []string{"ID", "Name", "Email", "Phone", "Role", "Store"},
	}
	for _, u := range list {
		store := ""
		if u.Store != nil {
			store = u.Store.Name
		}
		t.Rows = append(t.Rows, []any{u.ID, u.Name, u.Email, u.Phone, u.RoleName(), store})
	}
	return t
}

func userRecord(u users.User) [][2]string {
	store := ""
	if u.Store != nil {
		store = u.Store.Name
	}
	return [][2]string{
		{"ID", strconv.FormatInt(u.ID, 10)},
		{"Name", u.Name},
		{"Email", u.Email},
		{"Phone", u.Phone},
		{"Role", u.RoleName()},
		{"Store", store},
		{"Email verified", cell(u.EmailVerified)},
		{"Phone verified", cell(u.PhoneVerified)},
		{"Created", u.CreatedAt},
	}
}

func statisticsTable(stats users.Statistics) export.Table {
	t := export.Table{
		Sheet:   "Statistics",
		Headers: []string{"Metric", "Value"},
		Rows: [][]any{
			{"Total users", stats.TotalUsers},
			{"Users with store", stats.UsersWithStore},
		},
	}
	roles := make([]string, 0, len(stats.UsersByRole))
	for role := range stats.UsersByRole {
		roles = append(roles, role)
	}
	sort.Strings(roles)
	for _, role := range roles {
		t.Rows = append(t.Rows, []any{"Role " + role, stats.UsersByRole[role]})
	}
	return t
}

func settingRecord(s settings.Setting) [][2]string {
	pairs := [][2]string{
		{"ID", strconv.FormatInt(s.ID, 10)},
		{"Name (EN)", s.NameEn},
		{"Name (AR)", s.NameAr},
		{"Version", s.Version},
		{"Description", s.Description},
		{"URL", s.URL},
		{"Email", s.Email},
		{"Phone", s.Phone},
		{"Address", s.Address},
		{"Logo", s.Logo},
		{"Banner", s.Banner},
	}
	pairs = append(pairs, s.Social.Fields()...)
	pairs = append(pairs, s.Support.Fields()...)
	return append(pairs,
		[2]string{"Maintenance mode", cell(s.MaintenanceMode)},
		[2]string{"Maintenance message", s.MaintenanceMessage},
	)
}

func profileRecord(p profile.Profile) [][2]string {
	role, store := "", ""
	if p.Role != nil {
		role = p.Role.Role
	}
	if p.Store != nil {
		store = p.Store.Name
	}
	return [][2]string{
		{"ID", strconv.FormatInt(p.ID, 10)},
		{"Name", p.Name},
		{"Email", p.Email},
		{"Phone", p.Phone},
		{"Avatar", p.Avatar},
		{"Role", role},
		{"Store", store},
	}
}
