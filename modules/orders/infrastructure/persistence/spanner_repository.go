package persistence

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/spanner"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"

	platformspanner "github.com/vinialbano/alura-ddd-tatico-sub001/internal/platform/spanner"
	"github.com/vinialbano/alura-ddd-tatico-sub001/modules/orders/domain"
	"github.com/vinialbano/alura-ddd-tatico-sub001/modules/shared/types"
)

var orderColumns = []string{
	"OrderID", "CartID", "CustomerID", "Status",
	"PaymentID", "CancellationReason",
	"OrderDiscount", "TotalAmount", "Currency",
	"Street", "City", "State", "ZipCode", "Country",
	"ProcessedPaymentIDs", "ProcessedReservationIDs",
	"CreatedAt",
}

// SpannerRepository implements OrderRepository on Cloud Spanner. The
// idempotency ledgers are ARRAY<STRING> columns on the Orders row, so
// they are persisted atomically with the rest of the aggregate.
type SpannerRepository struct {
	client *spanner.Client
}

func NewSpannerRepository(client *spanner.Client) *SpannerRepository {
	return &SpannerRepository{client: client}
}

// Save persists an order. It uses an existing transaction if available,
// otherwise creates a new one.
func (r *SpannerRepository) Save(ctx context.Context, order *domain.Order) error {
	if txn, ok := platformspanner.ReadWriteTxFromContext(ctx); ok {
		return r.saveWithTx(txn, order)
	}

	_, err := r.client.ReadWriteTransaction(ctx, func(ctx context.Context, txn *spanner.ReadWriteTransaction) error {
		return r.saveWithTx(txn, order)
	})
	if err != nil {
		return fmt.Errorf("failed to save order: %w", err)
	}
	return nil
}

func (r *SpannerRepository) saveWithTx(tx *spanner.ReadWriteTransaction, order *domain.Order) error {
	orderID := order.ID().String()
	addr := order.ShippingAddress()

	mutations := []*spanner.Mutation{
		spanner.InsertOrUpdate("Orders", orderColumns,
			[]interface{}{
				orderID,
				order.CartID().String(),
				order.CustomerID().String(),
				order.Status().String(),
				nullString(order.PaymentID()),
				nullString(order.CancellationReason()),
				order.OrderDiscount().Amount(),
				order.Total().Amount(),
				order.Total().Currency(),
				addr.Street(),
				addr.City(),
				addr.State(),
				addr.ZipCode(),
				addr.Country(),
				order.ProcessedPaymentIDs(),
				order.ProcessedReservationIDs(),
				order.CreatedAt(),
			},
		),
	}

	// Items are immutable after creation; InsertOrUpdate keyed by
	// (OrderID, ItemIndex) rewrites the same rows on every save.
	for i, item := range order.Items() {
		mutations = append(mutations, spanner.InsertOrUpdate("OrderItems",
			[]string{"OrderID", "ItemIndex", "ProductID", "ProductName", "ProductDescription", "SKU", "Quantity", "UnitAmount", "ItemDiscount", "Currency"},
			[]interface{}{
				orderID,
				int64(i),
				item.Product.ProductID(),
				item.Product.Name(),
				item.Product.Description(),
				item.Product.SKU(),
				int64(item.Quantity.Value()),
				item.UnitPrice.Amount(),
				item.ItemDiscount.Amount(),
				item.UnitPrice.Currency(),
			},
		))
	}

	return tx.BufferWrite(mutations)
}

func (r *SpannerRepository) FindByID(ctx context.Context, id types.OrderID) (*domain.Order, error) {
	reader, ok := platformspanner.ReadTransactionFromContext(ctx)
	if !ok {
		// Reads from Orders + OrderItems require ReadOnlyTransaction
		// for point-in-time consistency.
		roTx := r.client.ReadOnlyTransaction()
		defer roTx.Close()
		reader = roTx
	}

	row, err := reader.ReadRow(ctx, "Orders", spanner.Key{id.String()}, orderColumns)
	if err != nil {
		if spanner.ErrCode(err) == codes.NotFound {
			return nil, domain.ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to read order: %w", err)
	}

	return r.scanOrder(ctx, reader, row)
}

func (r *SpannerRepository) FindByCartID(ctx context.Context, cartID types.CartID) (*domain.Order, error) {
	reader, ok := platformspanner.ReadTransactionFromContext(ctx)
	if !ok {
		roTx := r.client.ReadOnlyTransaction()
		defer roTx.Close()
		reader = roTx
	}

	stmt := spanner.Statement{
		SQL: `SELECT ` + columnList(orderColumns) + `
		      FROM Orders@{FORCE_INDEX=OrdersByCartID}
		      WHERE CartID = @cartID
		      LIMIT 1`,
		Params: map[string]interface{}{"cartID": cartID.String()},
	}

	iter := reader.Query(ctx, stmt)
	defer iter.Stop()

	row, err := iter.Next()
	if err == iterator.Done {
		return nil, domain.ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query order by cart: %w", err)
	}

	return r.scanOrder(ctx, reader, row)
}

func (r *SpannerRepository) scanOrder(ctx context.Context, reader platformspanner.ReadTransaction, row *spanner.Row) (*domain.Order, error) {
	var (
		orderID, cartID, customerID, status          string
		paymentID, cancellationReason                spanner.NullString
		orderDiscount, totalAmount                   int64
		currency                                     string
		street, city, state, zipCode, country        string
		processedPaymentIDs, processedReservationIDs []string
		createdAt                                    time.Time
	)

	if err := row.Columns(
		&orderID, &cartID, &customerID, &status,
		&paymentID, &cancellationReason,
		&orderDiscount, &totalAmount, &currency,
		&street, &city, &state, &zipCode, &country,
		&processedPaymentIDs, &processedReservationIDs,
		&createdAt,
	); err != nil {
		return nil, fmt.Errorf("failed to scan order: %w", err)
	}

	items, err := r.readOrderItems(ctx, reader, orderID)
	if err != nil {
		return nil, err
	}

	parsedOrderID, err := types.ParseOrderID(orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to parse order id: %w", err)
	}
	parsedCartID, err := types.ParseCartID(cartID)
	if err != nil {
		return nil, fmt.Errorf("failed to parse cart id: %w", err)
	}
	parsedCustomerID, err := types.ParseCustomerID(customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to parse customer id: %w", err)
	}

	address, err := domain.NewShippingAddress(street, city, state, zipCode, country)
	if err != nil {
		return nil, fmt.Errorf("failed to rebuild shipping address: %w", err)
	}

	return domain.Reconstitute(
		parsedOrderID,
		parsedCartID,
		parsedCustomerID,
		items,
		address,
		types.MustNewMoney(orderDiscount, currency),
		types.MustNewMoney(totalAmount, currency),
		domain.Status(status),
		paymentID.StringVal,
		cancellationReason.StringVal,
		processedPaymentIDs,
		processedReservationIDs,
		createdAt,
	), nil
}

func (r *SpannerRepository) readOrderItems(ctx context.Context, reader platformspanner.ReadTransaction, orderID string) ([]domain.OrderItem, error) {
	iter := reader.Read(ctx, "OrderItems",
		spanner.KeyRange{
			Start: spanner.Key{orderID},
			End:   spanner.Key{orderID},
			Kind:  spanner.ClosedClosed,
		},
		[]string{"ProductID", "ProductName", "ProductDescription", "SKU", "Quantity", "UnitAmount", "ItemDiscount", "Currency"},
	)
	defer iter.Stop()

	var items []domain.OrderItem
	for {
		row, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read order items: %w", err)
		}

		var productID, productName, productDescription, sku, currency string
		var quantity, unitAmount, itemDiscount int64

		if err := row.Columns(&productID, &productName, &productDescription, &sku, &quantity, &unitAmount, &itemDiscount, &currency); err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}

		snapshot, err := domain.NewProductSnapshot(productID, productName, productDescription, sku)
		if err != nil {
			return nil, fmt.Errorf("failed to rebuild product snapshot: %w", err)
		}
		qty, err := domain.NewQuantity(int(quantity))
		if err != nil {
			return nil, fmt.Errorf("failed to rebuild quantity: %w", err)
		}

		items = append(items, domain.OrderItem{
			Product:      snapshot,
			Quantity:     qty,
			UnitPrice:    types.MustNewMoney(unitAmount, currency),
			ItemDiscount: types.MustNewMoney(itemDiscount, currency),
		})
	}

	return items, nil
}

func nullString(s string) spanner.NullString {
	return spanner.NullString{StringVal: s, Valid: s != ""}
}

func columnList(columns []string) string {
	return strings.Join(columns, ", ")
}

// Compile-time interface check.
var _ domain.OrderRepository = (*SpannerRepository)(nil)
