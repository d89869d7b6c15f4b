// Package server は、HTTPサーバーとルーティングを管理します。
//
// このパッケージは、HTTPサーバーの起動、ルーティング、
// トップページの描画、静的ファイルの配信を担当します。
//
// 責務:
//   - HTTPサーバーの起動とグレースフルシャットダウン
//   - "/" でのトップページ描画 (render パッケージ)
//   - "/assets/*" をアセットディレクトリから配信
//   - その他のパスを public ディレクトリから配信
//   - 運用エンドポイント (live/ready/metrics) の提供
//
// 仕様:
//   - ルーティングは gin を使用
//   - アセットが見つからない場合は public にフォールバックせず404を返す
//   - ディレクトリの一覧は返さない
//   - バインドに失敗した場合は起動せずにエラーを返す
package server
