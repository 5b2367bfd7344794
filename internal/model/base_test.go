package model

import "testing"

func TestStringArrayScan(t *testing.T) {
	tests := []struct {
		name string
		src  interface{}
		want []string
	}{
		{"nil は nil のまま", nil, nil},
		{"空配列", "{}", []string{}},
		{"単一要素", "{kyaba}", []string{"kyaba"}},
		{"複数要素", "{kyaba,snack}", []string{"kyaba", "snack"}},
		{"クォート付き要素", `{"girls bar","snack"}`, []string{"girls bar", "snack"}},
		{"バイト列入力", []byte("{kyaba}"), []string{"kyaba"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var a StringArray
			if err := a.Scan(tt.src); err != nil {
				t.Fatalf("Scan() error = %v", err)
			}
			if len(a) != len(tt.want) {
				t.Fatalf("Scan() = %v, want %v", a, tt.want)
			}
			for i := range tt.want {
				if a[i] != tt.want[i] {
					t.Errorf("Scan()[%d] = %q, want %q", i, a[i], tt.want[i])
				}
			}
		})
	}

	var a StringArray
	if err := a.Scan(123); err == nil {
		t.Error("未対応型の Scan がエラーにならない")
	}
}

func TestStringArrayValue(t *testing.T) {
	v, err := StringArray{"kyaba", "snack"}.Value()
	if err != nil {
		t.Fatalf("Value() error = %v", err)
	}
	if v != `{"kyaba","snack"}` {
		t.Errorf("Value() = %v", v)
	}

	nilVal, err := StringArray(nil).Value()
	if err != nil || nilVal != nil {
		t.Errorf("nil の Value() = %v, %v", nilVal, err)
	}
}

func TestStringArrayContains(t *testing.T) {
	a := StringArray{"kyaba", "snack"}
	if !a.Contains("snack") {
		t.Error("存在する要素が false")
	}
	if a.Contains("girlsbar") {
		t.Error("存在しない要素が true")
	}
}

func TestContactStatusTerminal(t *testing.T) {
	if ContactNone.Terminal() || ContactEditing.Terminal() {
		t.Error("非終端状態が終端扱い")
	}
	if !ContactConfirmed.Terminal() || !ContactRejected.Terminal() {
		t.Error("終端状態が非終端扱い")
	}
}

func TestDrinkLevelCanDrink(t *testing.T) {
	for _, d := range []DrinkLevel{DrinkLight, DrinkNormal, DrinkStrong} {
		if !d.CanDrink() {
			t.Errorf("%s が飲めない扱い", d)
		}
	}
	for _, d := range []DrinkLevel{DrinkRefuse, DrinkUnknown, DrinkLevel("")} {
		if d.CanDrink() {
			t.Errorf("%s が飲める扱い", d)
		}
	}
}
