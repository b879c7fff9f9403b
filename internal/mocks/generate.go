package mocks

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name SourceFetcher --dir ../usecase --output usecase --outpkg fetchermock --filename source_fetcher_mock.go
