package ingestapp

import (
	"github.com/gwak2837/shabangnet-sub001/internal/domain/mall"
	"github.com/gwak2837/shabangnet-sub001/internal/domain/shared"
)

// PlatformSourceName identifies the central order platform as the source of
// an ingestion run. It is the site part of the composite product key for
// platform exports.
const PlatformSourceName = "사방넷"

// PlatformTemplate is the built-in layout of the central platform's order
// export. No stored template is consulted for platform files. Only the order
// identity and line-amount columns are guaranteed by every export variant;
// the remaining columns are optional and resolve empty when absent.
func PlatformTemplate() *mall.Template {
	return &mall.Template{
		BaseEntity:   shared.NewBaseEntity(),
		MallName:     PlatformSourceName,
		HeaderRow:    1,
		DataStartRow: 2,
		ColumnMappings: map[string]mall.ColumnRef{
			mall.FieldOrderNo:          {Header: "주문번호"},
			mall.FieldMallOrderNo:      {Header: "몰주문번호", Optional: true},
			mall.FieldMallProductID:    {Header: "상품번호"},
			mall.FieldProductName:      {Header: "상품명"},
			mall.FieldOptionName:       {Header: "옵션"},
			mall.FieldManufacturerName: {Header: "제조사", Optional: true},
			mall.FieldQuantity:         {Header: "수량"},
			mall.FieldPaymentAmount:    {Header: "결제금액"},
			mall.FieldCost:             {Header: "원가", Optional: true},
			mall.FieldShippingCost:     {Header: "배송비", Optional: true},
			mall.FieldFulfillmentType:  {Header: "발송유형", Optional: true},
			mall.FieldRecipientName:    {Header: "수취인", Optional: true},
			mall.FieldRecipientPhone:   {Header: "연락처", Optional: true},
			mall.FieldRecipientAddress: {Header: "주소", Optional: true},
			mall.FieldPostalCode:       {Header: "우편번호", Optional: true},
			mall.FieldMemo:             {Header: "메모", Optional: true},
		},
	}
}
