package trading

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/FaustoLovera/Trabajo-Simulador-Exchange-sub000/internal/models"
	"github.com/FaustoLovera/Trabajo-Simulador-Exchange-sub000/internal/money"
)

// executeParams описывает одну атомарную конвертацию средств.
type executeParams struct {
	// SourceAsset - монета, которая списывается
	SourceAsset string
	// GrossAmount - списываемая сумма до вычета комиссии
	GrossAmount decimal.Decimal
	// DestAsset - монета, которая зачисляется
	DestAsset string
	// Operation - метка операции для журнала (например "market-buy")
	Operation string
	// FromReserved - списывать из reserved, а не из available
	FromReserved bool
}

// executeResult - итог конвертации.
type executeResult struct {
	DestAmount decimal.Decimal
	NetAmount  decimal.Decimal
	Fee        decimal.Decimal
	USDValue   decimal.Decimal
	History    *models.HistoryEntry
}

// execute проводит сделку над кошельком в памяти: комиссия, конвертация
// через USD, списание источника и зачисление результата, плюс записи в
// журнал комиссий и историю. Кошелек НЕ сохраняется - это делает
// вызывающий в конце своего цикла. Порядок расчета:
//
//	fee  = gross * feeRate         (8 знаков)
//	net  = gross - fee
//	usd  = net * price(source)     (4 знака)
//	dest = usd / price(dest)       (8 знаков)
//
// Котировки запрашиваются до любых изменений кошелька: при недоступности
// хотя бы одной возвращается ErrQuotationUnavailable, а кошелек остается
// нетронутым.
func (d *Desk) execute(ctx context.Context, wallet models.Wallet, p executeParams) (*executeResult, error) {
	srcPrice, err := d.prices.GetPrice(ctx, p.SourceAsset)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrQuotationUnavailable, p.SourceAsset, err)
	}
	destPrice, err := d.prices.GetPrice(ctx, p.DestAsset)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrQuotationUnavailable, p.DestAsset, err)
	}
	if !srcPrice.IsPositive() || !destPrice.IsPositive() {
		return nil, fmt.Errorf("%w: non-positive price for %s/%s", ErrQuotationUnavailable, p.SourceAsset, p.DestAsset)
	}

	fee := money.Crypto(p.GrossAmount.Mul(d.feeRate))
	net := p.GrossAmount.Sub(fee)
	usd := money.USD(net.Mul(srcPrice))
	dest := money.Crypto(usd.Div(destPrice))

	if p.FromReserved {
		err = wallet.DebitReserved(p.SourceAsset, p.GrossAmount)
	} else {
		err = wallet.DebitAvailable(p.SourceAsset, p.GrossAmount)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: debit %s %s: %v", ErrLedgerInconsistent, p.GrossAmount, p.SourceAsset, err)
	}
	wallet.Credit(p.DestAsset, dest)

	// Запись о комиссии пишется на каждую сделку, в том числе нулевая
	// (FEE_RATE=0): журнал комиссий отражает все исполнения.
	now := time.Now().UTC()
	feeUSD := money.USD(fee.Mul(srcPrice))
	if err := d.stores.Fees.Append(models.FeeRecord{
		Asset:     p.SourceAsset,
		Amount:    fee,
		USDValue:  feeUSD,
		Timestamp: now,
	}); err != nil {
		return nil, fmt.Errorf("append fee record: %w", err)
	}
	FeesCollectedUSD.Add(feeUSD.InexactFloat64())

	entry := models.HistoryEntry{
		Operation:  p.Operation,
		FromAsset:  p.SourceAsset,
		FromAmount: net,
		ToAsset:    p.DestAsset,
		ToAmount:   dest,
		USDValue:   usd,
		Timestamp:  now,
	}
	if err := d.stores.History.Append(entry); err != nil {
		return nil, fmt.Errorf("append history entry: %w", err)
	}

	d.log.Debug("сделка исполнена",
		zap.String("operation", p.Operation),
		zap.String("from", p.SourceAsset),
		zap.String("to", p.DestAsset),
		zap.String("gross", p.GrossAmount.String()),
		zap.String("fee", fee.String()),
		zap.String("dest", dest.String()),
		zap.String("usd", usd.String()))

	return &executeResult{
		DestAmount: dest,
		NetAmount:  net,
		Fee:        fee,
		USDValue:   usd,
		History:    &entry,
	}, nil
}
