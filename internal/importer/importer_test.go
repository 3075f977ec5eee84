package importer_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/spendlens/internal/importer"
	"github.com/MrJamesThe3rd/spendlens/internal/matching"
	"github.com/MrJamesThe3rd/spendlens/internal/memory"
)

func TestService_Parse(t *testing.T) {
	type args struct {
		csvContent string
		format     string
	}

	type testCase struct {
		name        string
		args        args
		wantProfile string
		wantLen     int
		wantSkipped int
		verify      func(t *testing.T, res *importer.Result)
		wantErr     string
	}

	tests := []testCase{
		{
			name: "Standard",
			args: args{
				csvContent: `Date,Category,Description,Amount
2023-06-15,Food & Dining,Grocery shopping,45.99
2023-06-17,Entertainment,"Movie tickets, IMAX","$1,012.50"
`,
				format: importer.FormatAuto,
			},
			wantProfile: importer.ProfileStandard,
			wantLen:     2,
			verify: func(t *testing.T, res *importer.Result) {
				e := res.Entries[1]
				assert.Equal(t, "Movie tickets, IMAX", e.Description)
				assert.Equal(t, "1012.5", e.Amount.String())
				assert.Equal(t, "Entertainment", e.Category)
				assert.Equal(t, time.Date(2023, 6, 17, 0, 0, 0, 0, time.UTC), e.Date)
				assert.Empty(t, e.Owner)
			},
		},
		{
			name: "EuropeanWithPreamble",
			args: args{
				csvContent: `Extracto de despesas;;;
Período;Últimos 90 dias;;

Data;Categoria;Descrição;Montante
30-01-2026;Transportation;Combustível;-1.234,56
09-01-2026;Food & Dining;Almoço;12,00
Total;;;-1.222,56
`,
			},
			wantProfile: importer.ProfileEuropean,
			wantLen:     2,
			wantSkipped: 1,
			verify: func(t *testing.T, res *importer.Result) {
				assert.Equal(t, "1234.56", res.Entries[0].Amount.String(), "negative amounts are stored as absolute values")
				assert.Equal(t, "Combustível", res.Entries[0].Description)
				assert.Equal(t, time.Date(2026, 1, 30, 0, 0, 0, 0, time.UTC), res.Entries[0].Date)
			},
		},
		{
			name: "CaseInsensitiveHeaderAndMissingCategory",
			args: args{
				csvContent: "DATE,category,Description,AMOUNT\n2024-01-02,,Snacks,3\n",
			},
			wantProfile: importer.ProfileStandard,
			wantLen:     1,
			verify: func(t *testing.T, res *importer.Result) {
				assert.Equal(t, importer.DefaultCategory, res.Entries[0].Category)
				assert.Equal(t, []int{0}, res.Uncategorized)
			},
		},
		{
			name: "SkipsBadRowsAndZeroAmounts",
			args: args{
				csvContent: `Date,Category,Description,Amount
not-a-date,Other,Bad date,1
2024-01-02,Other,Bad amount,abc
2024-01-03,Other,Zero,0.00
2024-01-04,Other,Good,2

`,
			},
			wantProfile: importer.ProfileStandard,
			wantLen:     1,
			wantSkipped: 3,
		},
		{
			name:        "Empty",
			args:        args{csvContent: ""},
			wantProfile: importer.ProfileEuropean,
			wantLen:     0,
		},
		{
			name: "HeaderOnly",
			args: args{
				csvContent: "Date,Category,Description,Amount\n",
			},
			wantProfile: importer.ProfileStandard,
			wantLen:     0,
		},
		{
			name: "MissingDescription",
			args: args{
				csvContent: "Date,Category,Description,Amount\n2024-01-02,Other,,3\n",
			},
			wantErr: "row 2: missing description",
		},
		{
			name: "UnknownColumns",
			args: args{
				csvContent: "When,What,HowMuch\n2024-01-02,Thing,3\n",
			},
			wantErr: "no matching format found",
		},
		{
			name: "ForcedFormatMismatch",
			args: args{
				csvContent: "Date,Category,Description,Amount\n2024-01-02,Other,X,3\n",
				format:     importer.ProfileEuropean,
			},
			wantErr: "expected columns for european",
		},
		{
			name: "UnknownFormat",
			args: args{
				csvContent: "Date\n",
				format:     "ofx",
			},
			wantErr: "unknown format: ofx",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := importer.NewService(nil).Parse(context.Background(), "alice", strings.NewReader(tt.args.csvContent), tt.args.format)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantProfile, res.Profile)
			assert.Len(t, res.Entries, tt.wantLen)
			assert.Equal(t, tt.wantSkipped, res.Skipped)

			if tt.verify != nil {
				tt.verify(t, res)
			}
		})
	}
}

func TestService_ParseWindows1252(t *testing.T) {
	// "Descrição" and "Almoço" encoded in Windows-1252.
	input := "Data;Categoria;Descri\xe7\xe3o;Montante\n09-01-2026;Food & Dining;Almo\xe7o;12,00\n"

	res, err := importer.NewService(nil).Parse(context.Background(), "alice", strings.NewReader(input), importer.FormatAuto)
	require.NoError(t, err)
	require.Len(t, res.Entries, 1)
	assert.Equal(t, "Almoço", res.Entries[0].Description)
}

func TestService_ParseAppliesRules(t *testing.T) {
	ctx := context.Background()
	rules := matching.NewService(memory.NewRuleStore())

	_, err := rules.Learn(ctx, "alice", "spotify", "Entertainment")
	require.NoError(t, err)

	input := "Date,Category,Description,Amount\n" +
		"2024-01-02,,SPOTIFY AB,9.99\n" +
		"2024-01-03,Shopping,Spotify gift card,25\n" +
		"2024-01-04,,Corner shop,4\n"

	res, err := importer.NewService(rules).Parse(ctx, "alice", strings.NewReader(input), importer.FormatAuto)
	require.NoError(t, err)
	require.Len(t, res.Entries, 3)

	assert.Equal(t, 1, res.Categorized)
	assert.Equal(t, "Entertainment", res.Entries[0].Category)
	assert.Equal(t, "Shopping", res.Entries[1].Category)
	assert.Equal(t, importer.DefaultCategory, res.Entries[2].Category)

	other, err := importer.NewService(rules).Parse(ctx, "bob", strings.NewReader(input), importer.FormatAuto)
	require.NoError(t, err)
	assert.Zero(t, other.Categorized)
}
