package storage

import (
	"errors"
	"os"
	"path/filepath"

	jsoniter "github.com/json-iterator/go"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/FaustoLovera/Trabajo-Simulador-Exchange-sub000/internal/models"
)

// filestore.go - JSON-файловые реализации хранилищ
//
// Каждое хранилище - один файл в каталоге данных:
// wallet.json, orders.json, history.json, fees.json.
// Decimal-поля сериализуются строками (формат shopspring/decimal),
// поэтому save/load цикл не теряет точность.
//
// Запись идёт через временный файл с переименованием, чтобы падение
// посреди записи не оставило наполовину записанный JSON.

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Имена файлов хранилищ
const (
	walletFileName  = "wallet.json"
	ordersFileName  = "orders.json"
	historyFileName = "history.json"
	feesFileName    = "fees.json"
)

// readJSONFile читает и парсит файл в v.
// Возвращает ошибку и для отсутствующего, и для повреждённого файла -
// вызывающий в обоих случаях подставляет значение по умолчанию.
func readJSONFile(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

// writeJSONFile атомарно записывает v в файл
func writeJSONFile(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// logLoadFallback логирует причину подстановки значения по умолчанию.
// Отсутствие файла - штатная ситуация первого запуска, логируется как debug;
// повреждённый файл - warn.
func logLoadFallback(log *zap.Logger, path string, err error) {
	if errors.Is(err, os.ErrNotExist) {
		log.Debug("store file missing, using default", zap.String("path", path))
		return
	}
	log.Warn("store file unreadable, discarding and using default",
		zap.String("path", path), zap.Error(err))
}

// ============================================================
// WalletFileStore
// ============================================================

// WalletFileStore хранит кошелёк в wallet.json
type WalletFileStore struct {
	path string
	log  *zap.Logger

	// Засев при отсутствии/порче файла
	seedAsset  string
	seedAmount decimal.Decimal
}

// NewWalletFileStore создаёт файловое хранилище кошелька
func NewWalletFileStore(dataDir, seedAsset string, seedAmount decimal.Decimal, log *zap.Logger) *WalletFileStore {
	return &WalletFileStore{
		path:       filepath.Join(dataDir, walletFileName),
		log:        log,
		seedAsset:  seedAsset,
		seedAmount: seedAmount,
	}
}

// Load возвращает кошелёк из файла либо засеянный кошелёк по умолчанию
func (s *WalletFileStore) Load() models.Wallet {
	var w models.Wallet
	if err := readJSONFile(s.path, &w); err != nil {
		logLoadFallback(s.log, s.path, err)
		return models.NewWallet(s.seedAsset, s.seedAmount)
	}
	if w == nil {
		w = models.NewWallet(s.seedAsset, s.seedAmount)
	}
	return w
}

// Save сохраняет кошелёк, предварительно убрав пустые записи
func (s *WalletFileStore) Save(w models.Wallet) error {
	w.Prune()
	return writeJSONFile(s.path, w)
}

// ============================================================
// OrderFileStore
// ============================================================

// OrderFileStore хранит список ордеров в orders.json
type OrderFileStore struct {
	path string
	log  *zap.Logger
}

// NewOrderFileStore создаёт файловое хранилище ордеров
func NewOrderFileStore(dataDir string, log *zap.Logger) *OrderFileStore {
	return &OrderFileStore{
		path: filepath.Join(dataDir, ordersFileName),
		log:  log,
	}
}

// LoadAll возвращает все ордера в порядке записи
func (s *OrderFileStore) LoadAll() []*models.Order {
	var orders []*models.Order
	if err := readJSONFile(s.path, &orders); err != nil {
		logLoadFallback(s.log, s.path, err)
		return []*models.Order{}
	}
	if orders == nil {
		orders = []*models.Order{}
	}
	return orders
}

// LoadPending возвращает pending ордера, сохраняя порядок списка
func (s *OrderFileStore) LoadPending() []*models.Order {
	all := s.LoadAll()
	pending := make([]*models.Order, 0, len(all))
	for _, o := range all {
		if o.Status == models.OrderStatusPending {
			pending = append(pending, o)
		}
	}
	return pending
}

// SaveAll перезаписывает весь список ордеров
func (s *OrderFileStore) SaveAll(orders []*models.Order) error {
	return writeJSONFile(s.path, orders)
}

// Append добавляет ордер либо замещает запись с тем же ID
func (s *OrderFileStore) Append(order *models.Order) error {
	orders := s.LoadAll()
	replaced := false
	for i, o := range orders {
		if o.ID == order.ID {
			orders[i] = order
			replaced = true
			break
		}
	}
	if !replaced {
		orders = append(orders, order)
	}
	return s.SaveAll(orders)
}

// ============================================================
// HistoryFileStore
// ============================================================

// HistoryFileStore хранит журнал операций в history.json
type HistoryFileStore struct {
	path string
	log  *zap.Logger
}

// NewHistoryFileStore создаёт файловое хранилище журнала операций
func NewHistoryFileStore(dataDir string, log *zap.Logger) *HistoryFileStore {
	return &HistoryFileStore{
		path: filepath.Join(dataDir, historyFileName),
		log:  log,
	}
}

// LoadAll возвращает весь журнал операций
func (s *HistoryFileStore) LoadAll() []models.HistoryEntry {
	var entries []models.HistoryEntry
	if err := readJSONFile(s.path, &entries); err != nil {
		logLoadFallback(s.log, s.path, err)
		return []models.HistoryEntry{}
	}
	if entries == nil {
		entries = []models.HistoryEntry{}
	}
	return entries
}

// Append дописывает запись в журнал
func (s *HistoryFileStore) Append(entry models.HistoryEntry) error {
	entries := s.LoadAll()
	entry.ID = int64(len(entries) + 1)
	entries = append(entries, entry)
	return writeJSONFile(s.path, entries)
}

// ============================================================
// FeeFileStore
// ============================================================

// FeeFileStore хранит журнал комиссий в fees.json
type FeeFileStore struct {
	path string
	log  *zap.Logger
}

// NewFeeFileStore создаёт файловое хранилище журнала комиссий
func NewFeeFileStore(dataDir string, log *zap.Logger) *FeeFileStore {
	return &FeeFileStore{
		path: filepath.Join(dataDir, feesFileName),
		log:  log,
	}
}

// LoadAll возвращает весь журнал комиссий
func (s *FeeFileStore) LoadAll() []models.FeeRecord {
	var recs []models.FeeRecord
	if err := readJSONFile(s.path, &recs); err != nil {
		logLoadFallback(s.log, s.path, err)
		return []models.FeeRecord{}
	}
	if recs == nil {
		recs = []models.FeeRecord{}
	}
	return recs
}

// Append дописывает запись в журнал
func (s *FeeFileStore) Append(rec models.FeeRecord) error {
	recs := s.LoadAll()
	rec.ID = int64(len(recs) + 1)
	recs = append(recs, rec)
	return writeJSONFile(s.path, recs)
}

// NewFileStores собирает полный набор файловых хранилищ.
// Каталог данных создаётся при необходимости.
func NewFileStores(dataDir, seedAsset string, seedAmount decimal.Decimal, log *zap.Logger) (*Stores, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, err
	}
	return &Stores{
		Wallet:  NewWalletFileStore(dataDir, seedAsset, seedAmount, log),
		Orders:  NewOrderFileStore(dataDir, log),
		History: NewHistoryFileStore(dataDir, log),
		Fees:    NewFeeFileStore(dataDir, log),
	}, nil
}
