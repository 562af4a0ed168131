package stripekit

import (
	"errors"
	"testing"
)

func Test_Params(t *testing.T) {
	tests := []struct {
		params   Params
		expected string
	}{
		{
			Params{"email": "me@example.com"},
			"email=me%40example.com",
		},
		{
			Params{
				"invoice_settings": Params{
					"default_payment_method": "pm_123456",
				},
			},
			"invoice_settings[default_payment_method]=pm_123456",
		},
		{
			Params{
				"customer": "cu_123456",
				"items": []Params{
					{"price": "pr_123456"},
				},
				"expand": []string{"latest_invoice.payment_intent"},
			},
			"customer=cu_123456&expand[]=latest_invoice.payment_intent&items[0][price]=pr_123456",
		},
		{
			Params{
				"amount":               2000,
				"currency":             "gbp",
				"payment_method_types": []string{"card"},
			},
			"amount=2000&currency=gbp&payment_method_types[]=card",
		},
		{
			Params{
				"description": nil,
				"name":        "hatter",
			},
			"name=hatter",
		},
	}

	for i, test := range tests {
		encoded, err := test.params.Encode()

		if err != nil {
			t.Fatalf("tests[%d] - unexpected error: %s\n", i, err)
		}

		if encoded != test.expected {
			t.Errorf("tests[%d] - unexpected encoding, expected=%q, got=%q\n", i, test.expected, encoded)
		}
	}
}

func Test_EncodeParams(t *testing.T) {
	tests := []struct {
		params   interface{}
		expected string
	}{
		{
			&CustomerParams{
				Email: String("me@example.com"),
				InvoiceSettings: &CustomerInvoiceSettingsParams{
					DefaultPaymentMethod: String("pm_123456"),
				},
			},
			"email=me%40example.com&invoice_settings[default_payment_method]=pm_123456",
		},
		{
			&CheckoutSessionParams{
				Mode: CheckoutModePayment,
				LineItems: []*CheckoutLineItemParams{
					{Price: String("price_123"), Quantity: Int64(2)},
				},
				SuccessURL: String("https://example.com/ok"),
			},
			"line_items[0][price]=price_123&line_items[0][quantity]=2&mode=payment&success_url=https%3A%2F%2Fexample.com%2Fok",
		},
		{
			&CustomerListParams{
				ListParams: ListParams{Limit: Int64(3)},
				Created: &RangeQuery{
					GT:  Ts(1700000000),
					LTE: Ts(1700009999),
				},
			},
			"created[gt]=1700000000&created[lte]=1700009999&limit=3",
		},
		{
			&SubscriptionParams{
				Customer: String("cus_123456"),
				Items: []*SubscriptionItemParams{
					{Price: String("price_123456")},
				},
				Expand: []string{"latest_invoice.payment_intent"},
			},
			"customer=cus_123456&expand[]=latest_invoice.payment_intent&items[0][price]=price_123456",
		},
		{
			&CustomerParams{
				Name:     String("hatter"),
				Metadata: Metadata{"order_id": "6735"},
			},
			"metadata[order_id]=6735&name=hatter",
		},
		{
			&PaymentIntentParams{
				Amount:   Int64(2000),
				Currency: Cur(CurrencyGBP),
			},
			"amount=2000&currency=gbp",
		},
		{
			(*CustomerParams)(nil),
			"",
		},
	}

	for i, test := range tests {
		encoded, err := EncodeParams(test.params)

		if err != nil {
			t.Fatalf("tests[%d] - unexpected error: %s\n", i, err)
		}

		if encoded != test.expected {
			t.Errorf("tests[%d] - unexpected encoding, expected=%q, got=%q\n", i, test.expected, encoded)
		}
	}
}

func Test_EncodeParamsDeterministic(t *testing.T) {
	params := &CustomerParams{
		Email: String("me@example.com"),
		Name:  String("hatter"),
		Metadata: Metadata{
			"b": "2",
			"a": "1",
			"c": "3",
		},
	}

	first, err := EncodeParams(params)

	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 50; i++ {
		encoded, err := EncodeParams(params)

		if err != nil {
			t.Fatal(err)
		}

		if encoded != first {
			t.Fatalf("encoding not deterministic, expected=%q, got=%q\n", first, encoded)
		}
	}
}

func Test_EncodeParamsErrors(t *testing.T) {
	unknownType := PaymentMethodType("quantum_superposition")

	tests := []struct {
		params interface{}
	}{
		{&CheckoutSessionParams{}},
		{&CustomerParams{Email: String("not-an-email")}},
		{&PaymentMethodAttachParams{}},
		{&PaymentMethodListParams{Type: &unknownType}},
		{&PriceParams{Currency: Cur(Currency("zzz"))}},
	}

	for i, test := range tests {
		if _, err := EncodeParams(test.params); err == nil {
			t.Errorf("tests[%d] - expected encoding to fail, it did not\n", i)
		}
	}
}

func Test_EncodeParamsParamError(t *testing.T) {
	unknown := BankAccountStatus("not_a_status")

	_, err := EncodeParams(&struct {
		Status *BankAccountStatus `form:"status"`
	}{
		Status: &unknown,
	})

	var perr *ParamError

	if !errors.As(err, &perr) {
		t.Fatalf("expected ParamError, got %T\n", err)
	}

	if perr.Param != "status" {
		t.Errorf("unexpected param, expected=%q, got=%q\n", "status", perr.Param)
	}
}
